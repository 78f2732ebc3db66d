package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/ZanzyTHEbar/molencoder/molenc"
	"github.com/ZanzyTHEbar/molencoder/molenc/onehot"
	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "molenc-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) writeConfig(name, content string) string {
	path := filepath.Join(suite.tempDir, name)
	require.NoError(suite.T(), os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), internal.DefaultPadLength, cfg.Encoder.PadLength)
	assert.Equal(suite.T(), 120, cfg.Encoder.PadLength)
	assert.Empty(suite.T(), cfg.Encoder.Charset)
	assert.Equal(suite.T(), "truncate", cfg.Encoder.Overflow)
	assert.Equal(suite.T(), 0, cfg.Encoder.Workers)
	assert.Equal(suite.T(), internal.DefaultLogEvery, cfg.Featurize.LogEvery)
	assert.Equal(suite.T(), internal.DefaultStoreDSN, cfg.Store.DSN)
	assert.Equal(suite.T(), internal.DefaultStoreType, cfg.Store.Type)
	assert.Equal(suite.T(), internal.DefaultCharsetName, cfg.Store.CharsetName)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configFile := suite.writeConfig("config.yaml", `
encoder:
  padLength: 60
  charset: " #()=CNO"
  overflow: reject
  workers: 4
featurize:
  logEvery: 50
store:
  dsn: "file:test.db"
  type: memory
  charsetName: zinc
`)

	cfg, err := LoadConfig(configFile)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 60, cfg.Encoder.PadLength)
	assert.Equal(suite.T(), " #()=CNO", cfg.Encoder.Charset, "leading padding space must survive")
	assert.Equal(suite.T(), "reject", cfg.Encoder.Overflow)
	assert.Equal(suite.T(), 4, cfg.Encoder.Workers)
	assert.Equal(suite.T(), 50, cfg.Featurize.LogEvery)
	assert.Equal(suite.T(), "file:test.db", cfg.Store.DSN)
	assert.Equal(suite.T(), "memory", cfg.Store.Type)
	assert.Equal(suite.T(), "zinc", cfg.Store.CharsetName)
}

func (suite *ConfigTestSuite) TestLoadConfigFromSearchPath() {
	suite.writeConfig("config.yaml", "encoder:\n  padLength: 33\n")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 33, cfg.Encoder.PadLength)
}

func (suite *ConfigTestSuite) TestLoadConfigEnvOverride() {
	suite.T().Setenv("MOLENC_ENCODER_PADLENGTH", "64")
	suite.T().Setenv("MOLENC_STORE_CHARSETNAME", "from-env")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 64, cfg.Encoder.PadLength)
	assert.Equal(suite.T(), "from-env", cfg.Store.CharsetName)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidFile() {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFile() {
	configFile := suite.writeConfig("malformed.yaml", `
encoder:
  padLength: 10
  invalid_yaml: [unclosed bracket
`)

	cfg, err := LoadConfig(configFile)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestEncoderOptions() {
	path := suite.writeConfig("opts.yaml", "encoder:\n  padLength: 7\n  overflow: reject\n")
	cfg, err := LoadConfig(path)
	require.NoError(suite.T(), err)

	opts, err := cfg.EncoderOptions()
	require.NoError(suite.T(), err)
	enc, err := onehot.New(vocab.MustParse(" C"), opts...)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, enc.PadLength())
	assert.Equal(suite.T(), onehot.Reject, enc.Overflow())

	cfg.Encoder.Overflow = "wrap"
	_, err = cfg.EncoderOptions()
	assert.ErrorIs(suite.T(), err, onehot.ErrInvalidOverflow)
	assert.ErrorIs(suite.T(), cfg.Validate(), onehot.ErrInvalidOverflow)
}

func (suite *ConfigTestSuite) TestLoadConfigRejectsBadValues() {
	tests := []struct {
		name    string
		content string
	}{
		{"ZeroPadLength", "encoder:\n  padLength: 0\n"},
		{"NegativeWorkers", "encoder:\n  workers: -2\n"},
		{"UnknownStoreType", "store:\n  type: postgres\n"},
		{"UnknownOverflow", "encoder:\n  overflow: wrap\n"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			cfg, err := LoadConfig(suite.writeConfig(tt.name+".yaml", tt.content))
			assert.Error(suite.T(), err)
			assert.Nil(suite.T(), cfg)
		})
	}
}

func (suite *ConfigTestSuite) TestAppConfigGlobal() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), cfg.Encoder.PadLength, AppConfig.Encoder.PadLength)
	assert.Equal(suite.T(), cfg.Store.DSN, AppConfig.Store.DSN)
}

// BenchmarkLoadConfig benchmarks config loading performance
func BenchmarkLoadConfig(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := LoadConfig(""); err != nil {
			b.Fatal(err)
		}
	}
}
