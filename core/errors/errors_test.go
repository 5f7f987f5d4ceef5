package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTaxonomyUnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantBase error
	}{
		{
			name:     "invalid child kind",
			err:      &InvalidChildKindError{Parent: "run", Child: "table", ParentID: 3, ChildID: 7},
			wantMsg:  "run 3 cannot contain table 7",
			wantBase: ErrInvalidChildKind,
		},
		{
			name:     "incomplete comment",
			err:      &IncompleteCommentError{CommentID: 1, Missing: []string{"author", "anchor"}},
			wantMsg:  "comment 1 is incomplete: missing author, anchor",
			wantBase: ErrIncompleteComment,
		},
		{
			name:     "dangling anchor",
			err:      &DanglingAnchorError{Resource: "comment", ID: 2, Anchor: 9},
			wantMsg:  "comment 2: anchor 9 does not resolve",
			wantBase: ErrDanglingAnchor,
		},
		{
			name:     "dangling anchor with reason",
			err:      &DanglingAnchorError{Resource: "comment", ID: 2, Anchor: 9, Reason: "is a run, not a paragraph"},
			wantMsg:  "comment 2: anchor 9 is a run, not a paragraph",
			wantBase: ErrDanglingAnchor,
		},
		{
			name:     "duplicate comment id",
			err:      &DuplicateCommentIDError{CommentID: 4},
			wantMsg:  "comment 4 already attached",
			wantBase: ErrDuplicateCommentID,
		},
		{
			name:     "unknown parent",
			err:      &UnknownParentError{ParentID: 12},
			wantMsg:  "parent 12 not found in document",
			wantBase: ErrUnknownParent,
		},
		{
			name:     "already exists",
			err:      &AlreadyExistsError{Resource: "bookmark", ID: "intro"},
			wantMsg:  "bookmark already exists: intro",
			wantBase: ErrAlreadyExists,
		},
		{
			name:     "internal",
			err:      NewInternal("rels.Resolve", "comment %d lost its anchor", 3),
			wantMsg:  "internal error in rels.Resolve: comment 3 lost its anchor",
			wantBase: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.wantBase)
			}
		})
	}
}

func TestTaxonomyKindsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidChildKind,
		ErrIncompleteComment,
		ErrDanglingAnchor,
		ErrDuplicateCommentID,
		ErrUnknownParent,
		ErrSerialization,
	}
	errs := []error{
		&InvalidChildKindError{},
		&IncompleteCommentError{},
		&DanglingAnchorError{},
		&DuplicateCommentIDError{},
		&UnknownParentError{},
		&SerializationError{Part: "word/document.xml"},
	}

	for i, err := range errs {
		for j, sentinel := range sentinels {
			if got := errors.Is(err, sentinel); got != (i == j) {
				t.Errorf("errors.Is(%T, %v) = %v, want %v", err, sentinel, got, i == j)
			}
		}
	}
}

func TestSerializationError(t *testing.T) {
	cause := fmt.Errorf("invalid character U+0001")
	err := NewSerialization("word/comments.xml", cause)

	if got := err.Error(); got != "serialize word/comments.xml: invalid character U+0001" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrSerialization) {
		t.Error("errors.Is(err, ErrSerialization) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	wrapped := Wrap(err, "pack")
	var se *SerializationError
	if !As(wrapped, &se) {
		t.Fatal("As(wrapped, *SerializationError) = false, want true")
	}
	if se.Part != "word/comments.xml" {
		t.Errorf("Part = %q, want %q", se.Part, "word/comments.xml")
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "part", ID: "word/document.xml"},
			wantMsg:  "part not found: word/document.xml",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "blob"},
			wantMsg:  "blob not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "blob", ID: "ab12", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationAndParseErrors(t *testing.T) {
	v := NewValidation("bookmark.name", "name is required")
	if got := v.Error(); got != "validation failed for bookmark.name: name is required" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(v, ErrInvalidInput) {
		t.Error("validation error should unwrap to ErrInvalidInput")
	}

	cause0 := fmt.Errorf("zip: not a valid zip file")
	p := NewParse("script", "doc.txt:3:5", "unexpected token")
	if got := p.Error(); got != "failed to parse script at doc.txt:3:5: unexpected token" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(p, ErrInvalidInput) {
		t.Error("parse error should unwrap to ErrInvalidInput")
	}
	wrapped := &ParseError{Format: "zip", Message: "bad archive", Err: cause0}
	if !errors.Is(wrapped, ErrInvalidInput) || !errors.Is(wrapped, cause0) {
		t.Error("parse error with a cause should match both ErrInvalidInput and the cause")
	}

	cause := fmt.Errorf("permission denied")
	io := NewIO("rename", "/tmp/out.docx", cause)
	if got := io.Error(); got != "failed to rename /tmp/out.docx: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(io, cause) {
		t.Error("IO error should unwrap to its cause")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestWrapf(t *testing.T) {
	base := &UnknownParentError{ParentID: 5}
	err := Wrapf(base, "attach node %d", 7)
	if got := err.Error(); got != "attach node 7: parent 5 not found in document" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrUnknownParent) {
		t.Error("wrapped error lost its kind")
	}
}

func TestGenericSentinelsAreDistinct(t *testing.T) {
	generic := []error{ErrNotFound, ErrInvalidInput, ErrAlreadyExists, ErrInternal, ErrUnsupported}
	for i, a := range generic {
		for j, b := range generic {
			if got := Is(Wrap(a, "op"), b); got != (i == j) {
				t.Errorf("Is(Wrap(%v), %v) = %v, want %v", a, b, got, i == j)
			}
		}
	}
}
