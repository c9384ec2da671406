package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gamma-omg/medbot-mcp/matcher"
	"gopkg.in/yaml.v3"
)

const (
	envConfigPath    = "MEDBOT_CONFIG"
	envRedisPassword = "MEDBOT_REDIS_PASSWORD"
)

type RuleConfig struct {
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

type MatcherConfig struct {
	Threshold         *float64     `yaml:"threshold"`
	Greetings         []string     `yaml:"greetings"`
	GreetingResponses []string     `yaml:"greeting_responses"`
	Fallback          string       `yaml:"fallback"`
	Tips              []string     `yaml:"tips"`
	StopWords         []string     `yaml:"stop_words"`
	Rules             []RuleConfig `yaml:"rules"`
}

type SessionConfig struct {
	Backend       string        `yaml:"backend"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	MaxTurns      int           `yaml:"max_turns"`
	TTL           time.Duration `yaml:"ttl"`
}

type Config struct {
	LogFile        string        `yaml:"log"`
	Corpus         string        `yaml:"corpus"`
	QuestionColumn string        `yaml:"question_column"`
	AnswerColumn   string        `yaml:"answer_column"`
	MergeEventsMs  int           `yaml:"write_debounce_ms"`
	ServerAddr     string        `yaml:"server_addr"`
	MetricsAddr    string        `yaml:"metrics_addr"`
	Matcher        MatcherConfig `yaml:"matcher"`
	Session        SessionConfig `yaml:"session"`
}

func readConfig(cfgPath string) (*Config, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if pwd := os.Getenv(envRedisPassword); pwd != "" {
		cfg.Session.RedisPassword = pwd
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogFile == "" {
		c.LogFile = "medbot.log"
	}
	if c.Corpus == "" {
		c.Corpus = "aimedchatbot.csv"
	}
	if c.MergeEventsMs <= 0 {
		c.MergeEventsMs = 500
	}
	if c.ServerAddr == "" {
		c.ServerAddr = "localhost:8080"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
}

func (c *Config) matcherOptions() matcher.Options {
	opts := matcher.Options{
		Threshold:         c.Matcher.Threshold,
		Greetings:         c.Matcher.Greetings,
		GreetingResponses: c.Matcher.GreetingResponses,
		Fallback:          c.Matcher.Fallback,
		Tips:              c.Matcher.Tips,
	}
	if len(c.Matcher.StopWords) > 0 {
		opts.StopWords = matcher.StopWordSet(c.Matcher.StopWords)
	}
	for _, r := range c.Matcher.Rules {
		opts.Rules = append(opts.Rules, matcher.KeywordRule{
			Keywords: r.Keywords,
			Response: r.Response,
		})
	}
	return opts
}
