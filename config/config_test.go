package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"REPORT_SOURCE", "HTTP_PORT", "ANALYTICS_BASE_URL", "ANALYTICS_TIMEOUT", "S3_PREFIX"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4242", cfg.HTTPPort)
	assert.Equal(t, SourceAnalytics, cfg.ReportSource)
	assert.Equal(t, 30*time.Second, cfg.AnalyticsTimeout)
	assert.Equal(t, "reports/", cfg.S3Prefix)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"analytics ok", Config{ReportSource: SourceAnalytics, AnalyticsBaseURL: "http://x"}, false},
		{"analytics without url", Config{ReportSource: SourceAnalytics}, true},
		{"postgres missing host", Config{ReportSource: SourcePostgres, DBUser: "u", DBName: "n"}, true},
		{"postgres ok", Config{ReportSource: SourcePostgres, DBHost: "h", DBUser: "u", DBName: "n"}, false},
		{"archive missing bucket", Config{ReportSource: SourceArchive, S3URL: "http://s3"}, true},
		{"archive ok", Config{ReportSource: SourceArchive, S3URL: "http://s3", S3Bucket: "b"}, false},
		{"unknown source", Config{ReportSource: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDigestUsers(t *testing.T) {
	cfg := Config{DigestUserIDs: " 12, ,abc ,"}
	assert.Equal(t, []string{"12", "abc"}, cfg.DigestUsers())
	assert.Empty(t, (&Config{}).DigestUsers())
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "reports", DBPort: 5432}
	assert.Equal(t, "host=db user=u password=p dbname=reports port=5432 sslmode=disable", cfg.DSN())
}
