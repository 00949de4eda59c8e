package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/uuid"

	"milhas/internal/broker"
	"milhas/internal/config"
	"milhas/internal/constants"
	"milhas/internal/logger"
	"milhas/internal/opportunity"
	celpkg "milhas/pkg/cel"
	"milhas/pkg/metrics"
)

const (
	ChannelKafka   = "kafka"
	ChannelWebhook = "webhook"
)

// AlertEvent is the payload published to alert consumers when an
// opportunity matches a rule.
type AlertEvent struct {
	EventID     string              `json:"event_id"`
	RuleName    string              `json:"rule_name,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	Opportunity *opportunity.Record `json:"opportunity"`
}

type compiledRule struct {
	name     string
	program  cel.Program
	channels []string
}

// Dispatcher routes opportunity records to alert channels. Rules are
// compiled once at construction so a typo in an expression fails startup
// instead of silently dropping alerts.
type Dispatcher struct {
	cfg        config.NotificationsConfig
	rules      []compiledRule
	producer   broker.Producer
	httpClient *http.Client
	logger     logger.Logger
}

func NewDispatcher(cfg config.NotificationsConfig, producer broker.Producer, log logger.Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		cfg:      cfg,
		producer: producer,
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
		logger: log,
	}

	if !cfg.Enabled {
		return d, nil
	}

	evaluator, err := celpkg.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to create rule evaluator: %w", err)
	}

	for _, rule := range cfg.Rules {
		if err := evaluator.ValidateFilterExpression(rule.Expression); err != nil {
			return nil, fmt.Errorf("alert rule %q: %w", rule.Name, err)
		}
		program, err := evaluator.CompileExpression(rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("alert rule %q: %w", rule.Name, err)
		}

		channels := rule.Channels
		if len(channels) == 0 {
			channels = d.configuredChannels()
		}

		d.rules = append(d.rules, compiledRule{
			name:     rule.Name,
			program:  program,
			channels: channels,
		})
	}

	return d, nil
}

// Notify evaluates the record against the configured rules and delivers
// an alert on every matching channel. Without rules, every record goes to
// all configured channels. A channel is notified at most once per record
// even when several rules select it.
func (d *Dispatcher) Notify(ctx context.Context, rec *opportunity.Record) error {
	if !d.cfg.Enabled {
		return nil
	}

	targets := make(map[string]string)

	if len(d.rules) == 0 {
		for _, ch := range d.configuredChannels() {
			targets[ch] = ""
		}
	} else {
		vars := opportunity.AlertVars(rec)
		for _, rule := range d.rules {
			matched, err := d.evaluateRule(ctx, rule, vars)
			if err != nil {
				d.logger.WarnwCtx(ctx, "Alert rule evaluation failed, skipping rule",
					"rule", rule.name,
					"error", err,
				)
				continue
			}
			if !matched {
				continue
			}
			for _, ch := range rule.channels {
				if _, done := targets[ch]; !done {
					targets[ch] = rule.name
				}
			}
		}
	}

	var firstErr error
	for channel, ruleName := range targets {
		event := &AlertEvent{
			EventID:     uuid.New().String(),
			RuleName:    ruleName,
			Timestamp:   time.Now().UTC(),
			Opportunity: rec,
		}

		if err := d.deliver(ctx, channel, event); err != nil {
			metrics.NotificationsTotal.WithLabelValues(channel, "error").Inc()
			d.logger.ErrorwCtx(ctx, "Failed to deliver alert",
				"channel", channel,
				"rule", ruleName,
				"opportunity_id", rec.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		metrics.NotificationsTotal.WithLabelValues(channel, "success").Inc()
		d.logger.InfowCtx(ctx, "Alert delivered",
			"channel", channel,
			"rule", ruleName,
			"opportunity_id", rec.ID,
		)
	}

	return firstErr
}

func (d *Dispatcher) evaluateRule(ctx context.Context, rule compiledRule, vars map[string]interface{}) (bool, error) {
	result, _, err := rule.program.ContextEval(ctx, vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rule expression: %w", err)
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule expression did not return bool, got %T", result.Value())
	}
	return matched, nil
}

func (d *Dispatcher) deliver(ctx context.Context, channel string, event *AlertEvent) error {
	switch channel {
	case ChannelKafka:
		return d.publishKafka(ctx, event)
	case ChannelWebhook:
		return d.postWebhook(ctx, event)
	default:
		return fmt.Errorf("unknown alert channel: %s", channel)
	}
}

func (d *Dispatcher) publishKafka(ctx context.Context, event *AlertEvent) error {
	topic := d.cfg.AlertsTopic
	if topic == "" {
		topic = constants.DefaultAlertsTopic
	}
	return d.producer.Publish(ctx, topic, event.Opportunity.ID, event)
}

func (d *Dispatcher) postWebhook(ctx context.Context, event *AlertEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) configuredChannels() []string {
	var channels []string
	if d.cfg.AlertsTopic != "" && d.producer != nil {
		channels = append(channels, ChannelKafka)
	}
	if d.cfg.WebhookURL != "" {
		channels = append(channels, ChannelWebhook)
	}
	return channels
}
