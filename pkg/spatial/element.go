package spatial

import (
	"encoding/binary"
	"fmt"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// Element is a geometry value held client-side as WKB plus its SRID.
// It is immutable: the constructor and Bytes both copy.
type Element struct {
	wkb  []byte
	srid int
}

// NewElement creates an element from a WKB payload. The payload is not
// parsed or validated.
func NewElement(payload []byte, srid int) Element {
	return Element{wkb: append([]byte(nil), payload...), srid: srid}
}

// FromGeom encodes g as little-endian WKB, keeping its SRID.
func FromGeom(g geom.T) (Element, error) {
	b, err := wkb.Marshal(g, binary.LittleEndian)
	if err != nil {
		return Element{}, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return Element{wkb: b, srid: g.SRID()}, nil
}

// Bytes returns a copy of the WKB payload.
func (e Element) Bytes() []byte {
	return append([]byte(nil), e.wkb...)
}

// SRID returns the spatial reference id.
func (e Element) SRID() int { return e.srid }

// Expr builds the dialect's WKB constructor call for the element.
func (e Element) Expr(c *dialect.Compiler) (core.Expr, error) {
	return c.Call(dialect.GeomFromWKB, core.Blob(e.wkb), core.Int(e.srid))
}

// Call applies op with the element as its first argument.
func (e Element) Call(c *dialect.Compiler, op dialect.Operation, args ...core.Expr) (core.Expr, error) {
	self, err := e.Expr(c)
	if err != nil {
		return nil, err
	}
	return c.Call(op, prepend(self, args)...)
}

// CallName applies the operation called name with the element first.
func (e Element) CallName(c *dialect.Compiler, name string, args ...core.Expr) (core.Expr, error) {
	self, err := e.Expr(c)
	if err != nil {
		return nil, err
	}
	return c.CallName(name, prepend(self, args)...)
}
