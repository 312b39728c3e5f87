package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("SHOPFRONT_TEST_VALUE", "set")
	if got := Get("SHOPFRONT_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected set, got %q", got)
	}
	if got := Get("SHOPFRONT_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("SHOPFRONT_TEST_FLAG", "true")
	if !GetBool("SHOPFRONT_TEST_FLAG", false) {
		t.Fatal("expected true")
	}
	t.Setenv("SHOPFRONT_TEST_FLAG", "nope")
	if !GetBool("SHOPFRONT_TEST_FLAG", true) {
		t.Fatal("malformed value should return fallback")
	}
}
