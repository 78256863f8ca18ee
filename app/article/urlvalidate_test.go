package article

import (
	"testing"
)

func TestIsValidExternalURL_Rejections(t *testing.T) {
	rejected := []string{
		"",
		"   ",
		"#",
		"about:blank",
		"About:Blank",
		"https://example.com/article",
		"https://www.example.com/news/1",
		"ftp://files.test/article",
		"not a url",
		"javascript:alert(1)",
		"//no-scheme.test/path",
	}

	for _, raw := range rejected {
		if IsValidExternalURL(raw) {
			t.Errorf("Expected %q to be rejected", raw)
		}
	}
}

func TestIsValidExternalURL_Accepts(t *testing.T) {
	accepted := []string{
		"http://news.test/article/1",
		"https://news.test/article/1?utm=x",
		"HTTPS://news.test/upper-scheme",
		"https://cdn.images.test/photo.jpg",
	}

	for _, raw := range accepted {
		if !IsValidExternalURL(raw) {
			t.Errorf("Expected %q to be accepted", raw)
		}
	}
}
