package characters

import (
	"context"

	"go.appointy.com/charql/internal/catalog"
	"go.appointy.com/charql/schemabuilder"
)

// RegisterAllCharactersQuery registers getAllCharacters. The page token is
// handed to the upstream as is, so "?page=2" selects the second page.
func RegisterAllCharactersQuery(sb *schemabuilder.Schema, s *Server) {
	q := sb.Query()

	q.FieldFunc("getAllCharacters", func(ctx context.Context, args struct {
		Page *string `graphql:"page,description=Page token appended to the listing path such as ?page=2."`
	}) (*catalog.CharacterInfo, error) {
		page := ""
		if args.Page != nil {
			page = *args.Page
		}
		return s.catalog.Characters(ctx, page)
	}, schemabuilder.NonNullable(), schemabuilder.FieldDesc("Get one page of all characters."))
}

// RegisterCharacterByIDQuery registers getCharacterByID. A missing character
// resolves to null together with an error carrying the upstream message.
func RegisterCharacterByIDQuery(sb *schemabuilder.Schema, s *Server) {
	q := sb.Query()

	q.FieldFunc("getCharacterByID", func(ctx context.Context, args struct {
		ID schemabuilder.ID `graphql:"id,description=The id of the character."`
	}) (*catalog.Character, error) {
		return s.catalog.Character(ctx, args.ID.Value)
	}, schemabuilder.FieldDesc("Get a single character by id."))
}

// RegisterMultipleCharactersQuery registers getMultipleCharactersByID.
func RegisterMultipleCharactersQuery(sb *schemabuilder.Schema, s *Server) {
	q := sb.Query()

	q.FieldFunc("getMultipleCharactersByID", func(ctx context.Context, args struct {
		IDs string `graphql:"ids,description=Character ids joined by commas."`
	}) ([]catalog.Character, error) {
		return s.catalog.CharactersByIDs(ctx, args.IDs)
	}, schemabuilder.FieldDesc("Get several characters by their ids, in the order the upstream returns them."))
}

// RegisterQuery registers every query field.
func RegisterQuery(sb *schemabuilder.Schema, s *Server) {
	RegisterAllCharactersQuery(sb, s)
	RegisterCharacterByIDQuery(sb, s)
	RegisterMultipleCharactersQuery(sb, s)
}
