package service

import "testing"

func TestParseBybitKeys(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		key    string
		secret string
		ok     bool
	}{
		{"каноничный формат", "BYBIT: myKey; mySecret", "myKey", "mySecret", true},
		{"без пробелов", "BYBIT:myKey;mySecret", "myKey", "mySecret", true},
		// префикс регистронезависимый — "Bybit:" не должен уезжать в ключ
		{"смешанный регистр", "Bybit: myKey; mySecret", "myKey", "mySecret", true},
		{"нижний регистр", "bybit: myKey; mySecret", "myKey", "mySecret", true},
		{"внешние пробелы", "  BYBIT: myKey; mySecret  ", "myKey", "mySecret", true},
		{"нет префикса", "myKey; mySecret", "", "", false},
		{"одна часть", "BYBIT: myKey", "", "", false},
		{"три части", "BYBIT: a; b; c", "", "", false},
		{"пустой секрет", "BYBIT: myKey; ", "", "", false},
		{"пустая строка", "", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key, secret, ok := parseBybitKeys(tc.text)
			if ok != tc.ok {
				t.Fatalf("parseBybitKeys(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if key != tc.key || secret != tc.secret {
				t.Errorf("parseBybitKeys(%q) = (%q, %q), want (%q, %q)",
					tc.text, key, secret, tc.key, tc.secret)
			}
		})
	}
}
