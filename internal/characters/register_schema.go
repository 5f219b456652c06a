package characters

import "go.appointy.com/charql/schemabuilder"

// RegisterSchema registers the objects first and the queries last.
func RegisterSchema(sb *schemabuilder.Schema, s *Server) {
	RegisterObjects(sb)
	RegisterQuery(sb, s)
}
