package filter

import "testing"

func Test_Classify(t *testing.T) {
	cases := []struct {
		fileName string
		want     Class
	}{
		{"main.go", ClassModule},
		{"service.py", ClassModule},
		{"test_pipeline.py", ClassTest},
		{"scanner_test.go", ClassTest},
		{"UserServiceTest.java", ClassTest},
		{"app.spec.ts", ClassTest},
		{"login.e2e.ts", ClassTest},
		{"README.md", ClassResource},
		{"config.yaml", ClassResource},
		{"Dockerfile", ClassResource},
		{"Makefile", ClassResource},
		{".env", ClassResource},
		{"notes.txt", ClassResource},
		{"handler.rs", ClassModule},
	}

	for _, tc := range cases {
		if got := Classify(tc.fileName); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.fileName, got, tc.want)
		}
	}
}

func Test_Classify_TagDoesNotDependOnPath(t *testing.T) {
	// Classification is a filename heuristic; directories play no part.
	if Classify("test_models.py") != ClassTest {
		t.Error("expected test classification from filename alone")
	}
}
