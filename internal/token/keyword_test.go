package token

import "testing"

func TestLookupKeywordTransientGate(t *testing.T) {
	if k, ok := LookupKeyword("transient", false); ok || k != Ident {
		t.Fatalf("transient without gate = %v,%v; want Ident,false", k, ok)
	}
	if k, ok := LookupKeyword("transient", true); !ok || k != KwTransient {
		t.Fatalf("transient with gate = %v,%v; want KwTransient,true", k, ok)
	}
	if k, ok := LookupKeyword("contract", false); !ok || k != KwContract {
		t.Fatalf("contract = %v,%v", k, ok)
	}
	if _, ok := LookupKeyword("balance", true); ok {
		t.Fatalf("balance must not be a keyword")
	}
}

func TestIsElementaryType(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"uint256", true},
		{"uint", true},
		{"int8", true},
		{"bytes32", true},
		{"bytes", true},
		{"address", true},
		{"fixed128x18", true},
		{"uintx", false},
		{"MyStruct", false},
		{"uint256Thing", false},
		{"bytesLike", false},
	}
	for _, tt := range tests {
		if got := IsElementaryType(tt.name); got != tt.want {
			t.Errorf("IsElementaryType(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
