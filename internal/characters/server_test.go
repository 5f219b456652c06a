package characters_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go.appointy.com/charql/internal/catalog"
	"go.appointy.com/charql/internal/catalog/catalogtest"
	"go.appointy.com/charql/internal/characters"
	"go.appointy.com/charql/jerrors"
)

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []jerrors.Error `json:"errors"`
}

type character struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   place    `json:"origin"`
	Location place    `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

type place struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

const characterFields = `id name status species type gender origin { name url } location { name url } image episode url created`

type harness struct {
	t        *testing.T
	server   *httptest.Server
	upstream *catalogtest.Upstream
}

func newHarness(t *testing.T) *harness {
	upstream := catalogtest.NewUpstream(t)
	client := catalog.New(upstream.BaseURL(), catalog.WithLogger(zaptest.NewLogger(t)))

	h, err := characters.GetGraphqlServer(client)
	require.NoError(t, err)
	require.NotNil(t, h)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return &harness{t: t, server: server, upstream: upstream}
}

func (h *harness) post(query string, variables map[string]interface{}) response {
	h.t.Helper()

	reqBody, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	require.NoError(h.t, err)

	resp, err := http.Post(h.server.URL, "application/json", bytes.NewReader(reqBody))
	require.NoError(h.t, err)
	defer resp.Body.Close()
	require.Equal(h.t, http.StatusOK, resp.StatusCode)

	var out response
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// field decodes data[name] into v and reports whether it was non-null.
func (h *harness) field(r response, name string, v interface{}) bool {
	h.t.Helper()

	var data map[string]json.RawMessage
	if len(r.Data) > 0 {
		require.NoError(h.t, json.Unmarshal(r.Data, &data))
	}
	raw, ok := data[name]
	if !ok || string(raw) == "null" {
		return false
	}
	require.NoError(h.t, json.Unmarshal(raw, v), string(raw))
	return true
}

func TestGetAllCharacters(t *testing.T) {
	h := newHarness(t)

	query := `query ($page: String) { getAllCharacters(page: $page) { info { count pages next prev } results { ` + characterFields + ` } } }`

	var page struct {
		Info struct {
			Count int    `json:"count"`
			Pages int    `json:"pages"`
			Next  string `json:"next"`
			Prev  string `json:"prev"`
		} `json:"info"`
		Results []character `json:"results"`
	}

	r := h.post(query, nil)
	require.Empty(t, r.Errors, spew.Sdump(r.Errors))
	require.True(t, h.field(r, "getAllCharacters", &page))

	require.Equal(t, 3, page.Info.Count)
	require.Equal(t, 2, page.Info.Pages)
	require.Equal(t, h.upstream.BaseURL()+"/character/?page=2", page.Info.Next)
	require.Equal(t, "", page.Info.Prev)
	require.LessOrEqual(t, len(page.Results), int(math.Ceil(float64(page.Info.Count)/float64(page.Info.Pages))))
	require.Equal(t, "1", page.Results[0].ID)
	require.Equal(t, "Rick Sanchez", page.Results[0].Name)

	r = h.post(query, map[string]interface{}{"page": ""})
	require.Empty(t, r.Errors)

	r = h.post(query, map[string]interface{}{"page": "?page=2"})
	require.Empty(t, r.Errors)
	require.True(t, h.field(r, "getAllCharacters", &page))
	require.Equal(t, "", page.Info.Next)
	require.Len(t, page.Results, 1)
	require.Equal(t, "Summer Smith", page.Results[0].Name)

	require.Equal(t, []string{
		"/api/character/",
		"/api/character/",
		"/api/character/?page=2",
	}, h.upstream.Requests())
}

func TestGetAllCharactersInvalidPage(t *testing.T) {
	h := newHarness(t)

	r := h.post(`{ getAllCharacters(page: "?page=40") { info { count } } }`, nil)

	var page interface{}
	require.False(t, h.field(r, "getAllCharacters", &page))
	require.Len(t, r.Errors, 1)
	require.Equal(t, catalogtest.InvalidPageMessage, r.Errors[0].Message)
	require.Equal(t, "NotFound", r.Errors[0].Extensions.Code)
	require.Equal(t, []interface{}{"getAllCharacters"}, r.Errors[0].Path)
}

func TestGetCharacterByID(t *testing.T) {
	h := newHarness(t)

	r := h.post(`query ($id: ID!) { getCharacterByID(id: $id) { `+characterFields+` } }`, map[string]interface{}{"id": "1"})
	require.Empty(t, r.Errors)

	var got character
	require.True(t, h.field(r, "getCharacterByID", &got))

	want := character{
		ID:       "1",
		Name:     "Rick Sanchez",
		Status:   "Alive",
		Species:  "Human",
		Type:     "",
		Gender:   "Male",
		Origin:   place{Name: "Earth (C-137)", URL: "https://rickandmortyapi.com/api/location/1"},
		Location: place{Name: "Citadel of Ricks", URL: "https://rickandmortyapi.com/api/location/3"},
		Image:    "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
		Episode:  []string{"https://rickandmortyapi.com/api/episode/1", "https://rickandmortyapi.com/api/episode/2"},
		URL:      "https://rickandmortyapi.com/api/character/1",
		Created:  "2017-11-04T18:48:46.250Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("getCharacterByID mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCharacterByIDNotFound(t *testing.T) {
	h := newHarness(t)

	for _, id := range []string{"999", "0"} {
		r := h.post(`query ($id: ID!) { getCharacterByID(id: $id) { name } }`, map[string]interface{}{"id": id})

		var got character
		require.False(t, h.field(r, "getCharacterByID", &got), "id %s", id)
		require.Len(t, r.Errors, 1)
		require.Equal(t, catalogtest.NotFoundMessage, r.Errors[0].Message)
		require.Equal(t, "NotFound", r.Errors[0].Extensions.Code)
	}
}

func TestGetCharacterByIDSiblingsSurvive(t *testing.T) {
	h := newHarness(t)

	r := h.post(`{ found: getCharacterByID(id: 2) { name } missing: getCharacterByID(id: 999) { name } }`, nil)

	var found, missing character
	require.True(t, h.field(r, "found", &found))
	require.Equal(t, "Morty Smith", found.Name)
	require.False(t, h.field(r, "missing", &missing))

	require.Len(t, r.Errors, 1)
	require.Equal(t, []interface{}{"missing"}, r.Errors[0].Path)
}

func TestGetMultipleCharactersByID(t *testing.T) {
	h := newHarness(t)

	query := `query ($ids: String!) { getMultipleCharactersByID(ids: $ids) { id name } }`

	var got []character
	r := h.post(query, map[string]interface{}{"ids": "1,2,3"})
	require.Empty(t, r.Errors)
	require.True(t, h.field(r, "getMultipleCharactersByID", &got))
	require.Len(t, got, 3)
	for i, c := range got {
		require.Equal(t, catalogtest.Fixture(i + 1)["name"], c.Name)
	}

	r = h.post(query, map[string]interface{}{"ids": "3,1"})
	require.True(t, h.field(r, "getMultipleCharactersByID", &got))
	require.Equal(t, []string{"3", "1"}, []string{got[0].ID, got[1].ID})
}

func TestGetMultipleCharactersByIDNoneFound(t *testing.T) {
	h := newHarness(t)

	for _, ids := range []string{"998,999", "999", "1"} {
		r := h.post(`query ($ids: String!) { getMultipleCharactersByID(ids: $ids) { id } }`, map[string]interface{}{"ids": ids})

		var got []character
		require.False(t, h.field(r, "getMultipleCharactersByID", &got), "ids %s", ids)
		require.Len(t, r.Errors, 1)
		require.Equal(t, catalog.NoCharactersFound, r.Errors[0].Message)
		require.Equal(t, "NotFound", r.Errors[0].Extensions.Code)
	}
}

func TestUpstreamFailures(t *testing.T) {
	h := newHarness(t)

	r := h.post(`{ getCharacterByID(id: "broken") { name } }`, nil)
	require.Len(t, r.Errors, 1)
	require.Equal(t, "Internal", r.Errors[0].Extensions.Code)

	r = h.post(`{ getCharacterByID(id: "gateway") { name } }`, nil)
	require.Len(t, r.Errors, 1)
	require.Equal(t, "Unavailable", r.Errors[0].Extensions.Code)

	h.upstream.Close()
	r = h.post(`{ getAllCharacters { info { count } } }`, nil)
	require.Len(t, r.Errors, 1)
	require.Equal(t, "Unavailable", r.Errors[0].Extensions.Code)
}

func TestRepeatedQueriesAreIdentical(t *testing.T) {
	h := newHarness(t)

	query := `{ getAllCharacters { info { count next } results { ` + characterFields + ` } } getMultipleCharactersByID(ids: "1,2,3") { id name } }`

	first := h.post(query, nil)
	second := h.post(query, nil)
	require.Empty(t, first.Errors)
	require.Equal(t, string(first.Data), string(second.Data))
}

func TestSchemaDescriptions(t *testing.T) {
	h := newHarness(t)

	r := h.post(`{
		__type(name: "Query") {
			fields {
				name
				description
				type { kind name ofType { kind name } }
				args { name type { kind name ofType { name } } }
			}
		}
	}`, nil)
	require.Empty(t, r.Errors)

	type typeRef struct {
		Kind   string   `json:"kind"`
		Name   string   `json:"name"`
		OfType *typeRef `json:"ofType"`
	}
	var queryType struct {
		Fields []struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Type        typeRef `json:"type"`
			Args        []struct {
				Name string  `json:"name"`
				Type typeRef `json:"type"`
			} `json:"args"`
		} `json:"fields"`
	}
	require.True(t, h.field(r, "__type", &queryType))
	require.Len(t, queryType.Fields, 3)

	byName := map[string]int{}
	for i, f := range queryType.Fields {
		require.NotEmpty(t, f.Description, f.Name)
		byName[f.Name] = i
	}

	all := queryType.Fields[byName["getAllCharacters"]]
	require.Equal(t, "NON_NULL", all.Type.Kind)
	require.Equal(t, "CharacterInfo", all.Type.OfType.Name)
	require.Equal(t, "page", all.Args[0].Name)
	require.Equal(t, "String", all.Args[0].Type.Name)

	one := queryType.Fields[byName["getCharacterByID"]]
	require.Equal(t, "OBJECT", one.Type.Kind)
	require.Equal(t, "Character", one.Type.Name)
	require.Equal(t, "NON_NULL", one.Args[0].Type.Kind)
	require.Equal(t, "ID", one.Args[0].Type.OfType.Name)

	many := queryType.Fields[byName["getMultipleCharactersByID"]]
	require.Equal(t, "NON_NULL", many.Type.Kind)
	require.Equal(t, "LIST", many.Type.OfType.Kind)
	require.Equal(t, "String", many.Args[0].Type.OfType.Name)

	r = h.post(`{ __type(name: "Character") { description fields { name description } } }`, nil)
	var characterType struct {
		Description string `json:"description"`
		Fields      []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"fields"`
	}
	require.True(t, h.field(r, "__type", &characterType))
	require.NotEmpty(t, characterType.Description)
	require.Len(t, characterType.Fields, 12)
	for _, f := range characterType.Fields {
		require.NotEmpty(t, f.Description, f.Name)
	}
}
