//go:build windows

package wasapi

import (
	"testing"

	"github.com/go-ole/go-ole"

	"micmon/internal/domain"
)

func TestPropertyKeyConversion(t *testing.T) {
	pk := propertyKey(domain.KeyListenEnabled)
	if pk.PID != 1 {
		t.Fatalf("checkbox pid = %d, want 1", pk.PID)
	}
	if !ole.IsEqualGUID(&pk.FmtID, ole.NewGUID(domain.ListenFormatID)) {
		t.Fatalf("format id mismatch: %s", pk.FmtID.String())
	}
	if propertyKey(domain.KeyListenRoute).PID != 0 {
		t.Fatal("route pid must be 0")
	}
}

func TestPropVariantBool(t *testing.T) {
	p := &propertyStore{}

	pv, err := p.toPropVariant(domain.EncodeEnabled(true))
	if err != nil {
		t.Fatal(err)
	}
	if pv.VT != ole.VT_BOOL || pv.Val&0xFFFF == 0 {
		t.Fatalf("true encoded as VT=%d Val=%d", pv.VT, pv.Val)
	}
	got := fromPropVariant(pv)
	if got.Kind != domain.KindBool || !got.Bool {
		t.Fatalf("round trip lost true: %+v", got)
	}

	pv, err = p.toPropVariant(domain.EncodeEnabled(false))
	if err != nil {
		t.Fatal(err)
	}
	if pv.Val != 0 {
		t.Fatalf("false must encode VARIANT_FALSE, got %d", pv.Val)
	}
	if got := fromPropVariant(pv); got.Kind != domain.KindBool || got.Bool {
		t.Fatalf("round trip lost false: %+v", got)
	}
}

func TestPropVariantString(t *testing.T) {
	p := &propertyStore{}
	const id = "{0.0.0.00000000}.{a-b-c-d}"

	pv, err := p.toPropVariant(domain.EncodeRouteTarget(id))
	if err != nil {
		t.Fatal(err)
	}
	if pv.VT != ole.VT_LPWSTR || pv.Val == 0 {
		t.Fatalf("string encoded as VT=%d Val=%d", pv.VT, pv.Val)
	}
	if len(p.pinned) != 1 {
		t.Fatalf("utf16 buffer not pinned: %d", len(p.pinned))
	}
	got := fromPropVariant(pv)
	if got.Kind != domain.KindString || got.Str != id {
		t.Fatalf("round trip lost id: %+v", got)
	}
}

func TestPropVariantEmpty(t *testing.T) {
	p := &propertyStore{}

	pv, err := p.toPropVariant(domain.EncodeRouteTarget(""))
	if err != nil {
		t.Fatal(err)
	}
	if pv.VT != ole.VT_EMPTY || pv.Val != 0 {
		t.Fatalf("clearing value encoded as VT=%d Val=%d", pv.VT, pv.Val)
	}
	if got := fromPropVariant(pv); got.Kind != domain.KindEmpty {
		t.Fatalf("empty did not decode to empty: %+v", got)
	}
}
