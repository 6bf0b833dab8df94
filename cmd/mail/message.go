package main

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type mailTemplate struct {
	subject string
	file    string
	tmpl    *template.Template
}

// 邮件类型 -> 模板
var mailTemplates = map[string]*mailTemplate{
	"sweep_finished": {subject: "座位规划 - 网格搜索已结束", file: "sweep_finished_email.html"},
}

func loadTemplates(dir string) (map[string]*mailTemplate, error) {
	loaded := make(map[string]*mailTemplate, len(mailTemplates))
	for kind, t := range mailTemplates {
		tmpl, err := template.ParseFiles(filepath.Join(dir, t.file))
		if err != nil {
			return nil, err
		}
		loaded[kind] = &mailTemplate{subject: t.subject, file: t.file, tmpl: tmpl}
	}
	return loaded, nil
}

func buildMessage(from string, templates map[string]*mailTemplate, mailMessage *domain.MailMessage) (*mail.Msg, error) {
	t, ok := templates[mailMessage.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型 %q", mailMessage.Type)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(mailMessage.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(t.tmpl, mailMessage.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(t.subject)

	return m, nil
}
