package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" agromaq.db ", "agromaq.db"},
		{`"agromaq.db"`, "agromaq.db"},
		{"sqlite:///./agromaq.db", "agromaq.db"},
		{"postgres://u:p@localhost:5432/agromaq?sslmode=disable", "postgres://u:p@localhost:5432/agromaq?sslmode=disable"},
		{"host=localhost user=u dbname=agromaq", "host=localhost user=u dbname=agromaq sslmode=disable"},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	if IsPostgresDSN("agromaq.db") {
		t.Error("sqlite path misdetected as postgres")
	}
	if !IsPostgresDSN("postgres://localhost/agromaq") {
		t.Error("postgres URL not detected")
	}
	if !IsPostgresDSN("host=db user=u dbname=agromaq") {
		t.Error("key=value DSN not detected")
	}
}
