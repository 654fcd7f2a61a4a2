package domain

// User-facing messages, carried over verbatim from the service this relay
// replaces. The frontend displays them as the chatbot's reply, so they live
// with the domain types rather than in either HTTP surface.
const (
	// FallbackReply is used when the upstream answer has no bubbles.
	FallbackReply = "죄송합니다. 응답을 생성할 수 없습니다."

	// MsgBadJSON rejects request bodies that are not a JSON object.
	MsgBadJSON = "올바른 JSON 객체가 필요합니다."

	// MsgEmptyMessage rejects missing or whitespace-only messages.
	MsgEmptyMessage = "메시지를 입력해주세요."

	// MsgNotConfigured reports a missing invoke URL or secret key.
	MsgNotConfigured = "챗봇 설정이 올바르지 않습니다. 관리자에게 문의해주세요."

	// MsgEndpointNotFound reports an upstream 404 (misconfigured invoke URL).
	MsgEndpointNotFound = "챗봇 API 주소가 올바르지 않습니다."

	// MsgAuthFailed reports an upstream 401/403 (bad signature or secret).
	MsgAuthFailed = "챗봇 인증에 실패했습니다."

	// MsgUpstreamErrorFmt reports any other non-2xx upstream status.
	MsgUpstreamErrorFmt = "챗봇 서비스 오류 (%d)"

	// MsgUnreachable reports a network-level failure reaching the upstream.
	MsgUnreachable = "챗봇 서비스에 연결할 수 없습니다."

	// MsgInternal reports any unclassified server-side failure.
	MsgInternal = "서버 내부 오류가 발생했습니다."
)
