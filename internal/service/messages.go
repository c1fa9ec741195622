package service

import (
	"errors"

	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/redact"
)

// MaxUnknownMessageRunes bounds the provider text shown for unknown failures.
const MaxUnknownMessageRunes = 160

// UserMessage returns the message shown to the user for err. Actionable
// provider failures explain what to do, transient ones ask for a retry, and
// unknown ones show the redacted provider text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrBusy):
		return "上一篇笔记还在生成中，请稍候。"
	case errors.Is(err, domain.ErrEmptyTopic):
		return "请先输入笔记主题。"
	case errors.Is(err, domain.ErrTopicTooLong):
		return "主题太长了，请控制在200字以内。"
	case errors.Is(err, domain.ErrInvalidReferenceImage):
		return "参考图无效，请上传不超过8MB的图片。"
	case errors.Is(err, domain.ErrValidation):
		return "请求参数无效，请检查风格、篇幅和封面模式。"
	}

	var perr *generation.ProviderError
	if !errors.As(err, &perr) {
		return "生成失败，请重试。"
	}

	switch perr.Kind {
	case generation.KindAuthMissing:
		return "尚未配置 API Key，请先连接或设置有效的 API Key。"
	case generation.KindAuthInvalid:
		return "API Key 无效或已失效，请重新连接或更换 API Key。"
	case generation.KindQuotaExceeded:
		return "请求过于频繁或额度已用完，请稍等片刻再试。"
	case generation.KindEmptyResponse:
		return "模型没有返回内容，请重试。"
	case generation.KindMalformedOutput:
		return "生成结果格式异常，请重试。"
	default:
		msg := redact.Truncate(perr.RawMessage, MaxUnknownMessageRunes)
		if msg == "" {
			return "生成失败，请重试。"
		}
		return "生成失败：" + msg
	}
}
