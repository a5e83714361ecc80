package usecase

import "github.com/iamvkosarev/health-assistant-bot/pkg/local"

var (
	TextGreeting = local.NewSet(
		"Hello! I'm your healthcare assistant. How can I help you today?",
		local.NewTrans(local.Rus, "Здравствуйте! Я ваш медицинский ассистент. Чем могу помочь?"),
	)
	TextMissingCredentialReply = local.NewSet(
		"Please enter your API key to use the AI assistant. You can switch to local mode to keep chatting without one.",
		local.NewTrans(
			local.Rus,
			"Пожалуйста, введите ваш API-ключ, чтобы пользоваться ИИ-ассистентом. Без ключа можно продолжить в локальном режиме.",
		),
	)

	TextNoticeMissingCredentialTitle = local.NewSet(
		"API key required",
		local.NewTrans(local.Rus, "Нужен API-ключ"),
	)
	TextNoticeMissingCredential = local.NewSet(
		"Please enter your API key to use AI mode.",
		local.NewTrans(local.Rus, "Введите API-ключ, чтобы использовать режим ИИ."),
	)
	TextNoticeAPIErrorTitle = local.NewSet(
		"AI service error",
		local.NewTrans(local.Rus, "Ошибка ИИ-сервиса"),
	)
	TextNoticeAPIError = local.NewSet(
		"%s. Falling back to local responses.",
		local.NewTrans(local.Rus, "%s. Используются локальные ответы."),
	)
	TextNoticeTransportErrorTitle = local.NewSet(
		"Connection error",
		local.NewTrans(local.Rus, "Ошибка соединения"),
	)
	TextNoticeTransportError = local.NewSet(
		"Could not reach the AI service. Falling back to local responses.",
		local.NewTrans(local.Rus, "Не удалось связаться с ИИ-сервисом. Используются локальные ответы."),
	)
	TextNoticeRecordingTitle = local.NewSet(
		"Voice input",
		local.NewTrans(local.Rus, "Голосовой ввод"),
	)
	TextNoticeRecording = local.NewSet(
		"Voice recognition is not available yet. Please type your question.",
		local.NewTrans(local.Rus, "Распознавание голоса пока недоступно. Пожалуйста, напишите вопрос."),
	)
	TextNoticeModeTitle = local.NewSet(
		"Mode changed",
		local.NewTrans(local.Rus, "Режим изменён"),
	)
	TextNoticeModeRemote = local.NewSet(
		"Switched to AI mode.",
		local.NewTrans(local.Rus, "Включён режим ИИ."),
	)
	TextNoticeModeLocal = local.NewSet(
		"Switched to local mode.",
		local.NewTrans(local.Rus, "Включён локальный режим."),
	)
	TextNoticeCredentialTitle = local.NewSet(
		"API key",
		local.NewTrans(local.Rus, "API-ключ"),
	)
	TextNoticeCredentialSet = local.NewSet(
		"API key saved for this session.",
		local.NewTrans(local.Rus, "API-ключ сохранён для этой сессии."),
	)
	TextNoticeCredentialCleared = local.NewSet(
		"API key removed.",
		local.NewTrans(local.Rus, "API-ключ удалён."),
	)
)
