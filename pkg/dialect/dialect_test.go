package dialect

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChain() (base, derived *Dialect) {
	base = NewDialect("base").
		Func(Distance, "Distance").
		Func(Length, "Length").
		Func(WKT, "AsText").
		Func(KML, "AsKML").
		Gate(VersionGate{Floor: core.Version{Major: 3, Minor: 6}}).
		VersionQuery("SELECT version()").
		Build()
	derived = NewDialect("derived").
		Extends(base).
		Func(Length, "GLength").
		Func(SVG, "AsSVG").
		Unsupported(KML).
		Build()
	return base, derived
}

func TestResolve_Override(t *testing.T) {
	_, d := testChain()

	b, err := d.Resolve(Length)
	require.NoError(t, err)
	assert.Equal(t, "GLength", b.FuncName(), "derived entry must win over base")
}

func TestResolve_Fallback(t *testing.T) {
	_, d := testChain()

	b, err := d.Resolve(Distance)
	require.NoError(t, err)
	assert.Equal(t, "Distance", b.FuncName())

	b, err = d.Resolve(WKT)
	require.NoError(t, err)
	assert.Equal(t, "AsText", b.FuncName())
}

func TestResolve_Unsupported(t *testing.T) {
	base, d := testChain()

	tests := []struct {
		name string
		d    *Dialect
		op   Operation
	}{
		{"absent from both", d, Buffer},
		{"marked unsupported hides base", d, KML},
		{"derived-only op on base", base, SVG},
		{"out of range value", d, Operation(-7)},
		{"unregistered dynamic value", d, Operation(1 << 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.d.Resolve(tt.op)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported))

			var ue *UnsupportedError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.d.Name, ue.Dialect)
			assert.Equal(t, tt.op, ue.Op)
		})
	}

	b, err := base.Resolve(KML)
	require.NoError(t, err)
	assert.Equal(t, "AsKML", b.FuncName(), "marker in derived must not leak into base")
}

func TestRegister_IdentityNotName(t *testing.T) {
	first := Register("is_valid", KindPredicate)
	second := Register("is_valid", KindPredicate)
	require.NotEqual(t, first, second)
	assert.Equal(t, "is_valid", first.String())
	assert.Equal(t, "is_valid", second.String())
	assert.False(t, first.IsBuiltin())
	assert.True(t, first.Valid())

	a := NewDialect("a").Func(first, "IsValid").Build()
	b := NewDialect("b").Func(second, "ST_IsValid").Build()

	_, err := a.Resolve(second)
	assert.True(t, IsUnsupported(err), "a binds only its own is_valid")
	_, err = b.Resolve(first)
	assert.True(t, IsUnsupported(err), "b binds only its own is_valid")

	op, ok := a.LookupName("is_valid")
	require.True(t, ok)
	assert.Equal(t, first, op)
	op, ok = b.LookupName("IsValid")
	require.True(t, ok)
	assert.Equal(t, second, op)

	_, ok = ParseOperation("is_valid")
	assert.False(t, ok, "dialect-specific names are not builtins")
}

func TestParseOperation_RoundTrip(t *testing.T) {
	for _, op := range Builtins() {
		t.Run(op.String(), func(t *testing.T) {
			got, ok := ParseOperation(op.String())
			require.True(t, ok)
			assert.Equal(t, op, got)
		})
	}
}

func TestParseOperation_Spellings(t *testing.T) {
	tests := map[string]Operation{
		"within_distance": WithinDistance,
		"WithinDistance":  WithinDistance,
		"within-distance": WithinDistance,
		"MbrMinX":         MbrMinX,
		"GeoJSON":         GeoJSON,
		"wkt":             WKT,
	}
	for name, want := range tests {
		got, ok := ParseOperation(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseOperation("frobnicate")
	assert.False(t, ok)
}

func TestOperation_Kind(t *testing.T) {
	assert.Equal(t, KindPredicate, WithinDistance.Kind())
	assert.Equal(t, KindScalar, Distance.Kind())
	assert.Equal(t, "predicate", Intersects.Kind().String())
}

func TestBuild_Snapshot(t *testing.T) {
	b := NewDialect("snap").Func(Area, "Area")
	d := b.Build()
	b.Func(Area, "ST_Area")

	binding, err := d.Resolve(Area)
	require.NoError(t, err)
	assert.Equal(t, "Area", binding.FuncName())
}

func TestFunctions_Flattened(t *testing.T) {
	_, d := testChain()

	entries := d.Functions()
	byOp := make(map[Operation]FunctionEntry, len(entries))
	for _, e := range entries {
		byOp[e.Op] = e
	}

	require.Len(t, byOp, 5)
	assert.Equal(t, "GLength", byOp[Length].Binding.FuncName())
	assert.Equal(t, "derived", byOp[Length].Source)
	assert.Equal(t, "base", byOp[Distance].Source)
	assert.True(t, byOp[KML].Binding.IsUnsupported())

	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Op.String(), entries[i].Op.String())
	}
}

func TestChainAccessors(t *testing.T) {
	base, d := testChain()

	assert.Equal(t, []string{"derived", "base"}, d.Chain())
	assert.Same(t, base, d.Root())
	assert.Same(t, base, d.Base())
	assert.Equal(t, "SELECT version()", d.VersionQuery(), "inherited from base")
	assert.Equal(t, `"a""b"`, d.QuoteIdentifier(`a"b`))
}
