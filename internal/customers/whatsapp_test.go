package customers

import (
	"testing"
)

func TestComposeWhatsAppLink(t *testing.T) {
	cases := []struct {
		name     string
		phone    string
		message  string
		expected string
	}{
		{
			"digits only pass through",
			"2348035550101",
			"Hello",
			"https://wa.me/2348035550101?text=Hello",
		},
		{
			"plus, spaces and dashes are stripped",
			"+234 803-555-0101",
			"Hello",
			"https://wa.me/2348035550101?text=Hello",
		},
		{
			"message is query-escaped",
			"2348035550101",
			"Your avocado seedlings are ready! Pick up & pay at the gate?",
			"https://wa.me/2348035550101?text=Your+avocado+seedlings+are+ready%21+Pick+up+%26+pay+at+the+gate%3F",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComposeWhatsAppLink(tc.phone, tc.message)
			if err != nil {
				t.Fatalf("ComposeWhatsAppLink(%q, %q) error: %v", tc.phone, tc.message, err)
			}
			if got != tc.expected {
				t.Fatalf("link = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestComposeWhatsAppLinkRejectsShortNumbers(t *testing.T) {
	for _, phone := range []string{"", "12345", "ext. 42"} {
		if _, err := ComposeWhatsAppLink(phone, "hi"); err == nil {
			t.Fatalf("phone %q produced a link, expected an error", phone)
		}
	}
}
