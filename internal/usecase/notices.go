package usecase

import (
	"time"

	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	"github.com/iamvkosarev/health-assistant-bot/pkg/local"
)

// NoticeSink receives the transient notifications a conversation emits.
type NoticeSink interface {
	Notify(notice model.Notice)
}

type NoticeSinkFunc func(notice model.Notice)

func (f NoticeSinkFunc) Notify(notice model.Notice) {
	f(notice)
}

type discardNotices struct{}

func (discardNotices) Notify(model.Notice) {}

type noticeFactory struct {
	language      local.Language
	infoDuration  time.Duration
	errorDuration time.Duration
}

func newNoticeFactory(cfg config.Conversation) noticeFactory {
	return noticeFactory{
		language:      local.ParseLanguage(cfg.Language),
		infoDuration:  cfg.InfoNoticeDuration,
		errorDuration: cfg.ErrorNoticeDuration,
	}
}

func (n noticeFactory) info(title, message local.TextSet) model.Notice {
	return model.Notice{
		Kind:     model.NoticeKindInfo,
		Title:    title.Text(n.language),
		Message:  message.Text(n.language),
		Duration: n.infoDuration,
	}
}

func (n noticeFactory) missingCredential() model.Notice {
	return model.Notice{
		Kind:     model.NoticeKindError,
		Title:    TextNoticeMissingCredentialTitle.Text(n.language),
		Message:  TextNoticeMissingCredential.Text(n.language),
		Duration: n.errorDuration,
	}
}

func (n noticeFactory) apiError(serverMessage string) model.Notice {
	return model.Notice{
		Kind:     model.NoticeKindError,
		Title:    TextNoticeAPIErrorTitle.Text(n.language),
		Message:  TextNoticeAPIError.Format(n.language, serverMessage),
		Duration: n.errorDuration,
	}
}

func (n noticeFactory) transportError() model.Notice {
	return model.Notice{
		Kind:     model.NoticeKindError,
		Title:    TextNoticeTransportErrorTitle.Text(n.language),
		Message:  TextNoticeTransportError.Text(n.language),
		Duration: n.errorDuration,
	}
}

func (n noticeFactory) recording() model.Notice {
	return n.info(TextNoticeRecordingTitle, TextNoticeRecording)
}

func (n noticeFactory) modeSwitched(remote bool) model.Notice {
	if remote {
		return n.info(TextNoticeModeTitle, TextNoticeModeRemote)
	}
	return n.info(TextNoticeModeTitle, TextNoticeModeLocal)
}

func (n noticeFactory) credentialChanged(set bool) model.Notice {
	if set {
		return n.info(TextNoticeCredentialTitle, TextNoticeCredentialSet)
	}
	return n.info(TextNoticeCredentialTitle, TextNoticeCredentialCleared)
}

func (n noticeFactory) text(set local.TextSet) string {
	return set.Text(n.language)
}
