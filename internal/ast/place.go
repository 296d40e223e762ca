package ast

import (
	"encoding/json"
	"fmt"
)

// Place is a tagged union over assignable/addressable locations: a bare
// identifier, a pointer dereference, an array element, or a struct field.
type Place interface {
	placeNode()
}

type IdPlace struct {
	Name string
}

type DerefPlace struct {
	Operand Expr
}

type ArrayAccessPlace struct {
	Array Expr
	Index Expr
}

type FieldAccessPlace struct {
	Operand Expr
	Field   string
}

func (IdPlace) placeNode()          {}
func (DerefPlace) placeNode()       {}
func (ArrayAccessPlace) placeNode() {}
func (FieldAccessPlace) placeNode() {}

// PlaceField is the envelope used to unmarshal into the Place interface.
type PlaceField struct {
	Place Place
}

func (p *PlaceField) UnmarshalJSON(data []byte) error {
	pl, err := unmarshalPlace(data)
	if err != nil {
		return err
	}
	p.Place = pl
	return nil
}

func unmarshalPlace(data []byte) (Place, error) {
	tag, body, bare, err := decodeTag(data)
	if err != nil {
		return nil, fmt.Errorf("ast: place: %w", err)
	}
	if bare {
		return nil, fmt.Errorf("ast: place tag %q requires a payload", tag)
	}
	switch tag {
	case "Id":
		var name string
		if err := json.Unmarshal(body, &name); err != nil {
			return nil, fmt.Errorf("ast: Id place: %w", err)
		}
		return IdPlace{Name: name}, nil
	case "Deref":
		var e ExprField
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("ast: Deref place: %w", err)
		}
		return DerefPlace{Operand: e.Expr}, nil
	case "ArrayAccess":
		var raw struct {
			Array ExprField `json:"array"`
			Index ExprField `json:"index"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: ArrayAccess place: %w", err)
		}
		return ArrayAccessPlace{Array: raw.Array.Expr, Index: raw.Index.Expr}, nil
	case "FieldAccess":
		var raw struct {
			Operand ExprField `json:"operand"`
			Field   string    `json:"field"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: FieldAccess place: %w", err)
		}
		return FieldAccessPlace{Operand: raw.Operand.Expr, Field: raw.Field}, nil
	default:
		return nil, fmt.Errorf("ast: unrecognized place tag %q", tag)
	}
}
