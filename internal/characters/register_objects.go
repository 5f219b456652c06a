package characters

import (
	"strconv"

	"go.appointy.com/charql/internal/catalog"
	"go.appointy.com/charql/schemabuilder"
)

// RegisterCharacterObject registers Character. Every field is mapped
// explicitly so the schema names stay stable if the upstream struct grows.
func RegisterCharacterObject(sb *schemabuilder.Schema) {
	character := sb.Object("Character", catalog.Character{},
		schemabuilder.WithDescription("A character of the show as published by the upstream catalog."))

	character.FieldFunc("id", func(c *catalog.Character) schemabuilder.ID {
		return schemabuilder.ID{Value: strconv.Itoa(c.ID)}
	}, schemabuilder.FieldDesc("The id of the character."))
	character.FieldFunc("name", func(c *catalog.Character) string { return c.Name },
		schemabuilder.FieldDesc("The name of the character."))
	character.FieldFunc("status", func(c *catalog.Character) string { return c.Status },
		schemabuilder.FieldDesc("The status of the character ('Alive', 'Dead' or 'unknown')."))
	character.FieldFunc("species", func(c *catalog.Character) string { return c.Species },
		schemabuilder.FieldDesc("The species of the character."))
	character.FieldFunc("type", func(c *catalog.Character) string { return c.Type },
		schemabuilder.FieldDesc("The type or subspecies of the character."))
	character.FieldFunc("gender", func(c *catalog.Character) string { return c.Gender },
		schemabuilder.FieldDesc("The gender of the character ('Female', 'Male', 'Genderless' or 'unknown')."))
	character.FieldFunc("origin", func(c *catalog.Character) catalog.Origin { return c.Origin },
		schemabuilder.FieldDesc("Name and link to the character's origin location."))
	character.FieldFunc("location", func(c *catalog.Character) catalog.Location { return c.Location },
		schemabuilder.FieldDesc("Name and link to the character's last known location."))
	character.FieldFunc("image", func(c *catalog.Character) string { return c.Image },
		schemabuilder.FieldDesc("Link to the character's image. All images are 300x300px."))
	character.FieldFunc("episode", func(c *catalog.Character) []string { return c.Episode },
		schemabuilder.FieldDesc("Links to the episodes the character appeared in."))
	character.FieldFunc("url", func(c *catalog.Character) string { return c.URL },
		schemabuilder.FieldDesc("Link to the character's own endpoint."))
	character.FieldFunc("created", func(c *catalog.Character) string { return c.Created },
		schemabuilder.FieldDesc("Time at which the character was created in the database."))
}

func RegisterPlaceObjects(sb *schemabuilder.Schema) {
	origin := sb.Object("Origin", catalog.Origin{},
		schemabuilder.WithDescription("The place a character comes from."))
	origin.FieldFunc("name", func(o *catalog.Origin) string { return o.Name },
		schemabuilder.FieldDesc("The name of the origin."))
	origin.FieldFunc("url", func(o *catalog.Origin) string { return o.URL },
		schemabuilder.FieldDesc("Link to the origin's location endpoint."))

	location := sb.Object("Location", catalog.Location{},
		schemabuilder.WithDescription("The last known place of a character."))
	location.FieldFunc("name", func(l *catalog.Location) string { return l.Name },
		schemabuilder.FieldDesc("The name of the location."))
	location.FieldFunc("url", func(l *catalog.Location) string { return l.URL },
		schemabuilder.FieldDesc("Link to the location's endpoint."))
}

// RegisterPageObjects registers the listing envelope. next and prev are
// empty strings on the last and first page.
func RegisterPageObjects(sb *schemabuilder.Schema) {
	info := sb.Object("Info", catalog.Info{},
		schemabuilder.WithDescription("Pagination details of a character listing."))
	info.FieldFunc("count", func(i *catalog.Info) int { return i.Count },
		schemabuilder.FieldDesc("The number of characters in the catalog."))
	info.FieldFunc("pages", func(i *catalog.Info) int { return i.Pages },
		schemabuilder.FieldDesc("The number of pages."))
	info.FieldFunc("next", func(i *catalog.Info) string { return i.Next },
		schemabuilder.FieldDesc("Link to the next page, empty on the last page."))
	info.FieldFunc("prev", func(i *catalog.Info) string { return i.Prev },
		schemabuilder.FieldDesc("Link to the previous page, empty on the first page."))

	page := sb.Object("CharacterInfo", catalog.CharacterInfo{},
		schemabuilder.WithDescription("One page of the character listing."))
	page.FieldFunc("info", func(p *catalog.CharacterInfo) catalog.Info { return p.Info },
		schemabuilder.FieldDesc("Pagination details."))
	page.FieldFunc("results", func(p *catalog.CharacterInfo) []catalog.Character { return p.Results },
		schemabuilder.FieldDesc("The characters on this page."))
}

// RegisterObjects registers every output object.
func RegisterObjects(sb *schemabuilder.Schema) {
	RegisterCharacterObject(sb)
	RegisterPlaceObjects(sb)
	RegisterPageObjects(sb)
}
