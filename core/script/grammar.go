package script

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// scriptGrammar is the participle grammar for document scripts.
//
//nolint:govet // participle grammar tags are not standard struct tags
type scriptGrammar struct {
	Statements []*statement `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type statement struct {
	Pos lexer.Position

	Title       *string       `  "title" @String`
	Subject     *string       `| "subject" @String`
	Creator     *string       `| "creator" @String`
	Description *string       `| "description" @String`
	Page        *pageStmt     `| @@`
	Block       *block        `| @@`
	Comment     *commentStmt  `| @@`
	Bookmark    *bookmarkStmt `| @@`
	Link        *linkStmt     `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type pageStmt struct {
	Attrs []*attr `"page" "{" @@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type block struct {
	Paragraph *paragraphStmt `  @@`
	Table     *tableStmt     `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type paragraphStmt struct {
	Pos lexer.Position

	Label   *string   `"paragraph" @Label?`
	Attrs   []*attr   `@@* "{"`
	Inlines []*inline `@@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type inline struct {
	Run   *runStmt   `  @@`
	Break *breakStmt `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type runStmt struct {
	Pos lexer.Position

	Attrs   []*attr       `"run" @@*`
	Content []*runContent `( "{" @@* "}" | @@ )`
}

//nolint:govet // participle grammar tags are not standard struct tags
type runContent struct {
	Text  *string    `  @String`
	Break *breakStmt `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type breakStmt struct {
	Type *string `"break" @( "line" | "page" | "column" )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tableStmt struct {
	Pos lexer.Position

	Attrs []*attr    `"table" @@* "{"`
	Rows  []*rowStmt `@@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rowStmt struct {
	Cells []*cellStmt `"row" "{" @@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type cellStmt struct {
	Pos lexer.Position

	Attrs  []*attr  `"cell" @@* "{"`
	Blocks []*block `@@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type commentStmt struct {
	Pos lexer.Position

	Fields []*commentField `"comment" @@*`
}

// commentField may repeat; the last value of a field wins.
//
//nolint:govet // participle grammar tags are not standard struct tags
type commentField struct {
	ID       *int    `  "id" @Int`
	Anchor   *string `| "on" @Label`
	Author   *string `| "author" @String`
	Date     *string `| "date" @String`
	Initials *string `| "initials" @String`
	Text     *string `| "text" @String`
}

//nolint:govet // participle grammar tags are not standard struct tags
type bookmarkStmt struct {
	Pos lexer.Position

	Name  string `"bookmark" @String`
	Start string `"from" @Label`
	End   string `( "to" @Label )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type linkStmt struct {
	Pos lexer.Position

	Target string `"link" @String`
	On     string `"on" @Label`
	Run    *int   `@Int?`
}

// attr is a bare flag ("bold") or a key=value pair.
//
//nolint:govet // participle grammar tags are not standard struct tags
type attr struct {
	Pos lexer.Position

	Key   string `@Ident`
	Value *value `( "=" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type value struct {
	Str   *string `  @String`
	Int   *int    `| @Int`
	Ident *string `| @Ident`
}

func (v *value) String() string {
	switch {
	case v == nil:
		return ""
	case v.Str != nil:
		return *v.Str
	case v.Int != nil:
		return strconv.Itoa(*v.Int)
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// scriptLexer defines the lexer for document scripts. Paragraph labels
// carry a leading "@" so they never collide with attribute flags.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Label", Pattern: `@[A-Za-z_][A-Za-z0-9_\-]*`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
	{Name: "Punct", Pattern: `[{}=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// scriptParser is the participle parser for document scripts.
var scriptParser = participle.MustBuild[scriptGrammar](
	participle.Lexer(scriptLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)
