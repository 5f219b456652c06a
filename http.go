package charql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"google.golang.org/grpc/codes"

	"go.appointy.com/charql/jerrors"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

const playgroundTitle = "GraphQL Playground"

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
}

// WithMiddlewares wraps query execution. The first middleware is the
// outermost one.
func WithMiddlewares(mws ...MiddlewareFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Middlewares = append(o.Middlewares, mws...)
	}
}

// HTTPHandler implements the handler required for executing the graphql queries.
// A GET without a query serves the playground.
func HTTPHandler(schema *graphql.Schema, opts ...HandlerOption) http.Handler {
	h := &httpHandler{
		schema: schema,
	}

	o := handlerOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	prev := h.execute
	for i := range o.Middlewares {
		prev = o.Middlewares[len(o.Middlewares)-1-i](prev)
	}
	h.exec = prev

	return h
}

type httpHandler struct {
	schema *graphql.Schema

	exec HandlerFunc
}

type httpPostBody struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type httpResponse struct {
	Data   interface{}      `json:"data"`
	Errors []*jerrors.Error `json:"errors"`
}

var errMissingQuery = jerrors.New(codes.InvalidArgument, "request must include a query")

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)

	writeResponse := func(value interface{}, errs []*jerrors.Error) {
		response := httpResponse{Data: value, Errors: errs}

		responseJSON, err := json.Marshal(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write(responseJSON)
	}
	writeError := func(err error) {
		writeResponse(nil, []*jerrors.Error{jerrors.ConvertError(err)})
	}

	var params Params
	switch r.Method {
	case http.MethodGet:
		values := r.URL.Query()
		params.Query = values.Get("query")
		if params.Query == "" {
			servePlayground(w, r, playgroundTitle, r.URL.Path)
			return
		}
		params.OperationName = values.Get("operationName")
		if v := values.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &params.Variables); err != nil {
				writeError(jerrors.Errorf(codes.InvalidArgument, "variables must be a JSON object: %s", err))
				return
			}
		}

	case http.MethodPost:
		if r.Body == nil {
			writeError(errMissingQuery)
			return
		}
		var body httpPostBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				writeError(errMissingQuery)
				return
			}
			writeError(jerrors.Wrap(codes.InvalidArgument, err))
			return
		}
		params = Params(body)

	default:
		writeError(jerrors.New(codes.InvalidArgument, "request must be a POST"))
		return
	}

	if strings.TrimSpace(params.Query) == "" {
		writeError(errMissingQuery)
		return
	}

	ctx := addRequestID(r.Context(), requestID)
	ctx = addVariables(ctx, params.Variables)

	result := h.exec(ctx, &params)
	writeResponse(result.Data, jerrors.ConvertFormattedList(result.Errors))
}

func (h *httpHandler) execute(ctx context.Context, params *Params) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         *h.schema,
		RequestString:  params.Query,
		VariableValues: params.Variables,
		OperationName:  params.OperationName,
		Context:        ctx,
	})
}

type graphqlVariableKeyType int

const graphqlVariableKey graphqlVariableKeyType = 0

// ExtractVariables is used to returns the variables received as part of the graphql request.
// This is intended to be used from within the interceptors.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	if v := ctx.Value(graphqlVariableKey); v != nil {
		return v.(map[string]interface{})
	}

	return nil
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return context.WithValue(ctx, graphqlVariableKey, v)
}

type requestIDKeyType int

const requestIDKey requestIDKeyType = 0

// RequestID returns the id assigned to the HTTP request carrying the query,
// or "" outside of a request.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func addRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
