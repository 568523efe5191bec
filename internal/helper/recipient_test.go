package helper

import (
	"testing"

	"go.mau.fi/whatsmeow/types"
)

func TestParseRecipientJIDPassthrough(t *testing.T) {
	cases := []struct {
		in         string
		wantUser   string
		wantServer string
	}{
		{"123@g.us", "123", types.GroupServer},
		{"628111222333@s.whatsapp.net", "628111222333", types.DefaultUserServer},
	}
	for _, tc := range cases {
		jid, err := ParseRecipient(tc.in)
		if err != nil {
			t.Fatalf("ParseRecipient(%q) error: %v", tc.in, err)
		}
		if jid.User != tc.wantUser || jid.Server != tc.wantServer {
			t.Fatalf("ParseRecipient(%q) = %s, want %s@%s", tc.in, jid, tc.wantUser, tc.wantServer)
		}
	}
}

func TestParseRecipientPhoneNumber(t *testing.T) {
	jid, err := ParseRecipient("+62 811-222-333")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jid.User != "62811222333" {
		t.Fatalf("user = %q, want digits only", jid.User)
	}
	if jid.Server != types.DefaultUserServer {
		t.Fatalf("server = %q, want %q", jid.Server, types.DefaultUserServer)
	}
}

func TestParseRecipientInvalid(t *testing.T) {
	cases := []string{
		"",
		"not a number",
		"123",                 // too short
		"12345678901234567890", // too long
		"@g.us",               // missing user
	}
	for _, in := range cases {
		if _, err := ParseRecipient(in); err == nil {
			t.Fatalf("ParseRecipient(%q) expected error", in)
		}
	}
}
