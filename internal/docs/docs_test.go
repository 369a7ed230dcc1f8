package docs

import (
	"strings"
	"testing"
)

func TestTopics_ListsEmbeddedContent(t *testing.T) {
	t.Parallel()

	topics := Topics()
	want := map[string]bool{"getting-started": false, "offline": false, "roles": false}
	for _, topic := range topics {
		if _, ok := want[topic]; ok {
			want[topic] = true
		}
	}
	for topic, seen := range want {
		if !seen {
			t.Fatalf("missing topic %q in %v", topic, topics)
		}
	}
}

func TestGet_IsCaseInsensitive(t *testing.T) {
	t.Parallel()

	body, ok := Get("Getting-Started")
	if !ok {
		t.Fatalf("expected topic to resolve")
	}
	if !strings.Contains(body, "# Getting started") {
		t.Fatalf("unexpected body:\n%s", body)
	}
	if _, ok := Get("astrology"); ok {
		t.Fatalf("expected unknown topic to miss")
	}
}
