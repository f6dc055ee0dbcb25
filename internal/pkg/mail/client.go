package mail

import (
	"Sillage/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

var client *resty.Client

// InitMail 初始化邮件网关客户端
func InitMail() {
	client = resty.New().
		SetBaseURL(config.Cfg.Mail.URL).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Bearer "+config.Cfg.Mail.ApiKey)
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send 通过网关发送一封邮件, 网关未启用时直接跳过
func Send(ctx context.Context, to, subject, body string) error {
	if config.Cfg == nil || !config.Cfg.Mail.Enable {
		log.DebugContext(ctx, "邮件网关未启用, 跳过发送", "to", to, "subject", subject)
		return nil
	}

	resp, err := client.R().
		SetContext(ctx).
		SetBody(&sendRequest{
			From:    config.Cfg.Mail.From,
			To:      to,
			Subject: subject,
			Body:    body,
		}).
		Post("/v1/send")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mail send failed: %s", resp.Status())
	}

	log.InfoContext(ctx, "邮件发送成功", "to", to, "subject", subject)
	return nil
}
