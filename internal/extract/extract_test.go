package extract

import "testing"

func TestDateNormalizerFindsFormats(t *testing.T) {
	tool := NewDateNormalizer()
	result, err := tool.Extract("Effective January 5, 2026, payment is due by 2026-02-01 or 3/15/2026.")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	dates, ok := result["dates"].([]string)
	if !ok || len(dates) != 3 {
		t.Fatalf("expected 3 normalized dates, got %v", result["dates"])
	}
	for _, d := range []string{"2026-02-01", "2026-01-05", "2026-03-15"} {
		found := false
		for _, got := range dates {
			if got == d {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing normalized date %s in %v", d, dates)
		}
	}
}

func TestDateNormalizerRelativeDays(t *testing.T) {
	tool := NewDateNormalizer()
	result, err := tool.Extract("Payment due within 30 days of invoice.")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	days, ok := result["relative_days"].([]int)
	if !ok || len(days) != 1 || days[0] != 30 {
		t.Fatalf("expected relative_days [30], got %v", result["relative_days"])
	}
}

func TestDateNormalizerNothingFound(t *testing.T) {
	tool := NewDateNormalizer()
	result, err := tool.Extract("Confidentiality survives termination.")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %v", result)
	}
}

func TestAmountExtractorPatterns(t *testing.T) {
	tool := NewAmountExtractor()
	result, err := tool.Extract("A late fee of $1,500.00 plus EUR 200 applies.")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	amounts, ok := result["amounts"].([]map[string]any)
	if !ok || len(amounts) != 2 {
		t.Fatalf("expected 2 amounts, got %v", result)
	}
	if amounts[0]["value"].(float64) != 1500.0 || amounts[0]["currency"].(string) != "USD" {
		t.Fatalf("unexpected first amount: %v", amounts[0])
	}
	if amounts[1]["currency"].(string) != "EUR" {
		t.Fatalf("unexpected second amount: %v", amounts[1])
	}
}

func TestAmountExtractorNothingFound(t *testing.T) {
	tool := NewAmountExtractor()
	result, err := tool.Extract("No monetary terms here.")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %v", result)
	}
}

func TestClauseClassifierCategories(t *testing.T) {
	tool := NewClauseClassifier()
	cases := map[string]string{
		"A 1.5% monthly penalty applies after the due date": "penalty",
		"Payment due within 30 days of invoice":             "payment",
		"Confidential information must not be disclosed":    "confidentiality",
		"Either party may terminate with 60 days notice":    "termination",
		"The sky is blue":                                   "general",
	}
	for text, want := range cases {
		result, err := tool.Extract(text)
		if err != nil {
			t.Fatalf("Extract returned error: %v", err)
		}
		if result["category"].(string) != want {
			t.Fatalf("text %q classified as %v, expected %s", text, result["category"], want)
		}
	}
}
