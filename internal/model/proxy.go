package model

import "encoding/json"

// ProxyResult は上流サービスへの転送結果を正規化したリクエストスコープの値。
// 永続化されることはない。
// 成功時はSuccess/Data/Messageが、失敗時はErrが設定される。
type ProxyResult struct {
	Status  int
	Success bool
	Data    json.RawMessage
	Message string
	Err     *APIError
}
