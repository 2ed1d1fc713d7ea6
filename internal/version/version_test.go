/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package version

import "testing"

func TestBuildInfo_String(t *testing.T) {
	tests := []struct {
		info BuildInfo
		want string
	}{
		{BuildInfo{Version: "dev"}, "dev"},
		{BuildInfo{Version: "v1.0.0", GitCommit: "0123456789abcdef"}, "v1.0.0 (0123456)"},
		{BuildInfo{Version: "v1.0.0", GitCommit: "abc", Modified: true}, "v1.0.0 (abc, modified)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestInfo_LdflagsWin(t *testing.T) {
	defer func(v, c string) { Version, GitCommit = v, c }(Version, GitCommit)
	Version, GitCommit = "v9.9.9", "feedface"

	info := Info()
	if info.Version != "v9.9.9" || info.GitCommit != "feedface" {
		t.Errorf("ldflags values should win, got %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("expected a Go version")
	}
}
