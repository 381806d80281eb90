// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import "testing"

func TestNATSBackend_EchoBookkeeping(t *testing.T) {
	b := &NATSBackend{echoes: make(map[string][]int)}

	b.expectEcho("ana", 1)
	b.expectEcho("ana", 2)

	tests := []struct {
		name  string
		key   string
		value int
		echo  bool
	}{
		{name: "other participant", key: "bia", value: 1, echo: false},
		{name: "own second write", key: "ana", value: 2, echo: true},
		{name: "value written elsewhere", key: "ana", value: 7, echo: false},
		{name: "own first write", key: "ana", value: 1, echo: true},
		{name: "already consumed", key: "ana", value: 1, echo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.consumeEcho(tt.key, tt.value); got != tt.echo {
				t.Errorf("consumeEcho(%s, %d) = %v, want %v", tt.key, tt.value, got, tt.echo)
			}
		})
	}

	if len(b.echoes) != 0 {
		t.Errorf("expected no pending echoes, got %v", b.echoes)
	}
}

func TestParseScore(t *testing.T) {
	if v, err := parseScore([]byte("12")); err != nil || v != 12 {
		t.Errorf("parseScore(12) = %d, %v", v, err)
	}
	for _, raw := range []string{"", "-1", "lots"} {
		if _, err := parseScore([]byte(raw)); err == nil {
			t.Errorf("parseScore(%q) should fail", raw)
		}
	}
}
