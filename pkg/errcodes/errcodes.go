package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	ValidationError     failure.ErrorCode = "ValidationError"

	// Авторизация в оракуле цен
	AuthFailed failure.ErrorCode = "AuthFailed"

	// Апстримы
	ItemNotPriced        failure.ErrorCode = "ItemNotPriced"        // 404 от оракула, запрошен пересчёт
	RetriesExhausted     failure.ErrorCode = "RetriesExhausted"     // бюджет повторов исчерпан
	RateLimited          failure.ErrorCode = "RateLimited"          // 429 сверх лимита ожиданий и бюджета
	InconsistentResponse failure.ErrorCode = "InconsistentResponse" // маркет вернул чужой предмет
	ListingsUnavailable  failure.ErrorCode = "ListingsUnavailable"  // в снапшоте нет поля listings
	InvalidPayload       failure.ErrorCode = "InvalidPayload"

	// Предметы
	InvalidItemName failure.ErrorCode = "InvalidItemName"
	InvalidSKU      failure.ErrorCode = "InvalidSKU"
	UnknownItem     failure.ErrorCode = "UnknownItem"
	UnpricedFlip    failure.ErrorCode = "UnpricedFlip"
)
