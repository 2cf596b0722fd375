package pagination

import "testing"

func TestLimitDefaultsAndClamps(t *testing.T) {
	if got := (Pagination{}).Limit(); got != defaultPageSize {
		t.Fatalf("expected default %d, got %d", defaultPageSize, got)
	}
	if got := (Pagination{PageSize: 25}).Limit(); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	if got := (Pagination{PageSize: 10_000}).Limit(); got != maxPageSize {
		t.Fatalf("expected clamp to %d, got %d", maxPageSize, got)
	}
}

func TestOffsetMalformedTokenReadsAsZero(t *testing.T) {
	cases := []string{"", "not-base64!!", "bm9wZQ"}
	for _, token := range cases {
		if got := (Pagination{PageToken: token}).Offset(); got != 0 {
			t.Fatalf("token %q: expected offset 0, got %d", token, got)
		}
	}
}

func TestNextTokenRoundTrip(t *testing.T) {
	p := Pagination{PageSize: 10}

	token := p.NextToken(10)
	if token == "" {
		t.Fatal("expected a next token for a full page")
	}

	next := Pagination{PageToken: token, PageSize: 10}
	if got := next.Offset(); got != 10 {
		t.Fatalf("expected offset 10, got %d", got)
	}

	if token := next.NextToken(10); token == "" {
		t.Fatal("expected a token for the following page")
	} else if got := (Pagination{PageToken: token}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestNextTokenEmptyOnShortPage(t *testing.T) {
	p := Pagination{PageSize: 10}
	if token := p.NextToken(3); token != "" {
		t.Fatalf("expected no token on short page, got %q", token)
	}
}
