// Package buildCFG turns the loaded configuration into typed settings with
// defaults applied.
package buildCFG

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/mailer"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

// Source is the part of *config.Config the builders read.
type Source interface {
	GetString(key string) string
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
}

type ServerConfig struct {
	Port            string
	Mode            string
	ShutdownTimeout time.Duration
	MigrationsPath  string
	AllowOrigins    []string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

const (
	TransportAuto    = ""
	TransportSMTP    = "smtp"
	TransportQueue   = "queue"
	TransportConsole = "console"
)

type MailConfig struct {
	// Transport is one of smtp, queue or console. Empty selects smtp when an
	// API key is present and console otherwise.
	Transport  string
	From       string
	Recipients []string
	// Timeout bounds one delivery attempt.
	Timeout time.Duration
	SMTP    mailer.SMTPConfig
}

// Resolved returns the transport the dispatcher will use. smtp without an
// API key degrades to console.
func (m MailConfig) Resolved() string {
	switch m.Transport {
	case TransportAuto, TransportSMTP:
		if m.SMTP.APIKey == "" {
			return TransportConsole
		}
		return TransportSMTP
	}
	return m.Transport
}

// Delivery returns the transport the queue consumer delivers with.
func (m MailConfig) Delivery() string {
	if m.SMTP.APIKey == "" {
		return TransportConsole
	}
	return TransportSMTP
}

func BuildServerConfig(cfg Source, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:            cfg.GetString("server.port"),
		Mode:            cfg.GetString("server.mode"),
		ShutdownTimeout: cfg.GetDuration("server.shutdown_timeout"),
		MigrationsPath:  cfg.GetString("database.migrations_path"),
		AllowOrigins:    cfg.GetStringSlice("server.allow_origins"),
	}
	if sc.Port == "" {
		sc.Port = "8080"
		log.Warn().Msg("server.port not set, using 8080")
	}
	if sc.Mode == "" {
		sc.Mode = "release"
	}
	if sc.ShutdownTimeout <= 0 {
		sc.ShutdownTimeout = 10 * time.Second
	}
	if sc.MigrationsPath == "" {
		sc.MigrationsPath = "migrations/postgres"
	}
	return sc
}

func BuildDBConfig(cfg Source, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, errors.New("database.master_dsn is required")
	}
	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("database.conn_max_lifetime"),
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}

	log.Debug().Int("slaves", len(slaveDSNs)).Int("max_open_conns", opts.MaxOpenConns).Msg("database config built")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg Source, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbitmq.url"),
		Exchange: cfg.GetString("rabbitmq.exchange"),
		Queue:    cfg.GetString("rabbitmq.queue"),
	}
	if rc.Url == "" {
		return RabbitConfig{}, errors.New("rabbitmq.url is required")
	}
	if rc.Exchange == "" {
		rc.Exchange = "biew.notifications"
	}
	if rc.Queue == "" {
		rc.Queue = "biew.notifications.email"
	}
	log.Debug().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbitmq config built")
	return rc, nil
}

func BuildMailConfig(cfg Source, log *zerolog.Logger) (MailConfig, error) {
	mc := MailConfig{
		Transport:  strings.ToLower(strings.TrimSpace(cfg.GetString("mail.transport"))),
		From:       cfg.GetString("mail.from"),
		Recipients: cfg.GetStringSlice("mail.recipients"),
		Timeout:    cfg.GetDuration("mail.timeout"),
		SMTP: mailer.SMTPConfig{
			Host:     cfg.GetString("mail.smtp_host"),
			Port:     cfg.GetInt("mail.smtp_port"),
			Username: cfg.GetString("mail.smtp_username"),
			APIKey:   cfg.GetString("mail.api_key"),
		},
	}

	switch mc.Transport {
	case TransportAuto, TransportSMTP, TransportQueue, TransportConsole:
	default:
		return MailConfig{}, fmt.Errorf("mail.transport %q: expected smtp, queue or console", mc.Transport)
	}
	if mc.Timeout <= 0 {
		mc.Timeout = mailer.DefaultTimeout
	}
	if mc.SMTP.Host == "" {
		mc.SMTP.Host = "smtp.resend.com"
	}
	if mc.SMTP.Port == 0 {
		mc.SMTP.Port = 587
	}
	if mc.SMTP.Username == "" {
		mc.SMTP.Username = "resend"
	}
	if mc.SMTP.APIKey == "" && mc.Transport != TransportConsole {
		log.Warn().Msg("mail.api_key not set, notifications will only be logged")
	}
	return mc, nil
}

func BuildAuthConfig(cfg Source, log *zerolog.Logger) (auth.Config, error) {
	ac := auth.Config{
		Username:     cfg.GetString("admin.username"),
		PasswordHash: cfg.GetString("admin.password_hash"),
		Secret:       cfg.GetString("admin.jwt_secret"),
		TokenTTL:     cfg.GetDuration("admin.token_ttl"),
		Issuer:       cfg.GetString("admin.issuer"),
	}
	if ac.Username == "" {
		ac.Username = "admin"
	}
	if ac.Secret == "" || ac.PasswordHash == "" {
		return auth.Config{}, errors.New("admin.jwt_secret and admin.password_hash are required")
	}
	log.Debug().Str("username", ac.Username).Dur("token_ttl", ac.TokenTTL).Msg("admin auth config built")
	return ac, nil
}

// BuildFeeConfig starts from the published BIEW fees and overrides whatever
// the configuration sets.
func BuildFeeConfig(cfg Source) (model.FeeTable, error) {
	fees := model.DefaultFees
	if c := cfg.GetString("fees.currency"); c != "" {
		fees.Currency = c
	}
	if v := cfg.GetInt("fees.delegation"); v != 0 {
		fees.Delegation = int64(v)
	}
	if v := cfg.GetInt("fees.exhibition"); v != 0 {
		fees.Exhibition = int64(v)
	}
	if fees.Delegation < 0 || fees.Exhibition < 0 {
		return model.FeeTable{}, errors.New("fees must not be negative")
	}
	return fees, nil
}
