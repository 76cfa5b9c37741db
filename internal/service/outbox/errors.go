package outbox

import "errors"

// ErrInternal возвращается при ошибках чтения или записи outbox
var ErrInternal = errors.New("outbox relay: internal error")
