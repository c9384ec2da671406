package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gamma-omg/medbot-mcp/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_readConfig(t *testing.T) {
	path := writeConfig(t, `
log: bot.log
corpus: data/faq.csv
question_column: Q
answer_column: A
write_debounce_ms: 250
server_addr: 0.0.0.0:9000
metrics_addr: 0.0.0.0:9100
matcher:
  threshold: 0.3
  greetings: [hola]
  greeting_responses: ["¡Hola!"]
  fallback: Sorry
  tips: [Sleep well]
  stop_words: [the, of]
  rules:
    - keywords: [diabetes, sugar]
      response: Diabetes leaflet
session:
  backend: redis
  redis_addr: localhost:6379
  redis_db: 2
  max_turns: 20
  ttl: 30m
`)

	cfg, err := readConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bot.log", cfg.LogFile)
	assert.Equal(t, "data/faq.csv", cfg.Corpus)
	assert.Equal(t, "Q", cfg.QuestionColumn)
	assert.Equal(t, 250, cfg.MergeEventsMs)
	assert.Equal(t, "0.0.0.0:9100", cfg.MetricsAddr)
	require.NotNil(t, cfg.Matcher.Threshold)
	assert.Equal(t, 0.3, *cfg.Matcher.Threshold)
	assert.Equal(t, []RuleConfig{{Keywords: []string{"diabetes", "sugar"}, Response: "Diabetes leaflet"}}, cfg.Matcher.Rules)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 2, cfg.Session.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func Test_readConfig_Defaults(t *testing.T) {
	t.Setenv(envRedisPassword, "secret")
	cfg, err := readConfig(writeConfig(t, "corpus: faq.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "medbot.log", cfg.LogFile)
	assert.Equal(t, 500, cfg.MergeEventsMs)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "secret", cfg.Session.RedisPassword)
}

func Test_readConfig_Errors(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "unable to open config file")

	_, err = readConfig(writeConfig(t, "matcher: [not, a, map"))
	assert.ErrorContains(t, err, "unable to parse config file")
}

func Test_matcherOptions(t *testing.T) {
	threshold := 0.5
	cfg := Config{Matcher: MatcherConfig{
		Threshold: &threshold,
		StopWords: []string{"About"},
		Rules:     []RuleConfig{{Keywords: []string{"diabetes"}, Response: "leaflet"}},
	}}

	opts := cfg.matcherOptions()
	require.NotNil(t, opts.Threshold)
	assert.Equal(t, 0.5, *opts.Threshold)
	assert.Equal(t, map[string]struct{}{"about": {}}, opts.StopWords)
	assert.Equal(t, []matcher.Rule{matcher.KeywordRule{Keywords: []string{"diabetes"}, Response: "leaflet"}}, opts.Rules)

	m := matcher.New([]matcher.Entry{{Question: "what is diabetes", Answer: "stored"}}, opts)
	assert.Equal(t, "leaflet", m.Match("tell me about diabetes").Text)

	opts = (&Config{}).matcherOptions()
	assert.Nil(t, opts.Threshold)
	assert.Nil(t, opts.StopWords)
	assert.Empty(t, opts.Rules)
}

func Test_readConfig_ZeroThreshold(t *testing.T) {
	cfg, err := readConfig(writeConfig(t, "matcher:\n  threshold: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Matcher.Threshold)
	assert.Zero(t, *cfg.Matcher.Threshold)
}
