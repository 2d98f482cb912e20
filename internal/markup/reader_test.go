package markup

import (
	"strings"
	"testing"
)

// TestParse tests tolerant document parsing.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parses well-formed markup", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse(strings.NewReader(`<html><body><p id="x">hi</p></body></html>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if got := Query(doc, "p#x"); len(got) != 1 {
			t.Errorf("expected 1 match, got %d", len(got))
		}
	})

	t.Run("tolerates unclosed tags and stray characters", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse(strings.NewReader(`<div><span class="sum">ok<div>>>`))
		if err != nil {
			t.Fatalf("expected tolerant parse, got error: %v", err)
		}
		spans := Query(doc, "span.sum")
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if got := Text(spans[0]); got != "ok" {
			t.Errorf("expected text 'ok', got %q", got)
		}
	})

	t.Run("tolerates non-UTF8 bytes", func(t *testing.T) {
		t.Parallel()

		// Latin-1 e-acute outside any declared charset.
		raw := "<html><body><p>caf\xe9</p></body></html>"
		doc, err := Parse(strings.NewReader(raw))
		if err != nil {
			t.Fatalf("expected tolerant parse, got error: %v", err)
		}
		if doc == nil {
			t.Fatal("expected document")
		}
	})
}

// TestQuery tests path selector evaluation.
func TestQuery(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
		<form id="page__revisions" method="post">
			<div>
				<ul>
					<li><div><input type="checkbox" name="rev2[]" value="100"><span class="sum">first</span></div></li>
					<li><div><input type="checkbox" name="rev2[]" value="90"><span class="sum">second</span></div></li>
				</ul>
			</div>
		</form>
		<div class="pagenav-next">
			<form><div><input type="hidden" name="first" value="20"></div></form>
		</div>
	</body></html>`

	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	t.Run("walks child axis after first step", func(t *testing.T) {
		t.Parallel()

		rows := Query(doc, "form#page__revisions/div/ul/li/div")
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
	})

	t.Run("matches attribute values containing brackets", func(t *testing.T) {
		t.Parallel()

		rows := Query(doc, "form#page__revisions/div/ul/li/div")
		inputs := Query(rows[0], "input[name=rev2[]]")
		if len(inputs) != 1 {
			t.Fatalf("expected 1 input, got %d", len(inputs))
		}
		if val, ok := Attr(inputs[0], "value"); !ok || val != "100" {
			t.Errorf("expected value '100', got %q (present=%v)", val, ok)
		}
	})

	t.Run("matches class qualifiers", func(t *testing.T) {
		t.Parallel()

		next := Query(doc, "div.pagenav-next/form/div/input[name=first]")
		if len(next) != 1 {
			t.Fatalf("expected 1 input, got %d", len(next))
		}
		if val, _ := Attr(next[0], "value"); val != "20" {
			t.Errorf("expected value '20', got %q", val)
		}
	})

	t.Run("returns empty slice on no match", func(t *testing.T) {
		t.Parallel()

		if got := Query(doc, "table/tr"); got == nil || len(got) != 0 {
			t.Errorf("expected empty non-error result, got %v", got)
		}
	})

	t.Run("nil root yields no matches", func(t *testing.T) {
		t.Parallel()

		if got := Query(nil, "div"); len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})
}

// TestText tests subtree text extraction.
func TestText(t *testing.T) {
	t.Parallel()

	t.Run("concatenates nested text", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse(strings.NewReader(`<p>a<b>b</b>c</p>`))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		ps := Query(doc, "p")
		if len(ps) != 1 {
			t.Fatalf("expected 1 p, got %d", len(ps))
		}
		if got := Text(ps[0]); got != "abc" {
			t.Errorf("expected 'abc', got %q", got)
		}
	})

	t.Run("nil node is empty", func(t *testing.T) {
		t.Parallel()

		if got := Text(nil); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
