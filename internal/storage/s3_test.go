package storage

import "testing"

func TestProviderFlags(t *testing.T) {
	tests := []struct {
		provider   string
		region     string
		wantPath   bool
		wantRegion string
	}{
		{"r2", "", false, "auto"},
		{"s3", "", false, "us-east-1"},
		{"s3", "eu-central-1", false, "eu-central-1"},
		{"minio", "", true, "us-east-1"},
		{"other", "", true, "us-east-1"},
		{"something-new", "", true, "us-east-1"},
	}
	for _, tt := range tests {
		gotPath, gotRegion := ProviderFlags(tt.provider, tt.region)
		if gotPath != tt.wantPath || gotRegion != tt.wantRegion {
			t.Errorf("ProviderFlags(%q, %q) = (%v, %q), want (%v, %q)",
				tt.provider, tt.region, gotPath, gotRegion, tt.wantPath, tt.wantRegion)
		}
	}
}
