// Package model はドメインモデルを定義する。
package model

import (
	"encoding/json"
	"strconv"
)

// Role はユーザーの種別を表す。上流のアイデンティティサービスが発行する
// user_typeを閉じた列挙として扱う。
type Role string

const (
	// RoleCandidate は求職者を示す。
	RoleCandidate Role = "candidate"
	// RoleEmployer は求人企業を示す。
	RoleEmployer Role = "employer"
	// RoleUnspecified は未指定または未知の種別を示す。
	RoleUnspecified Role = "unspecified"
)

// Normalize は未知の値をRoleUnspecifiedに正規化したRoleを返す。
func (r Role) Normalize() Role {
	switch r {
	case RoleCandidate, RoleEmployer:
		return r
	default:
		return RoleUnspecified
	}
}

// FlexID は上流サービスのID表現を吸収する不透明な識別子。
// 上流はJSONで文字列と数値の両方を返すため、どちらも受け付ける。
type FlexID string

// UnmarshalJSON はJSON文字列またはJSON数値をFlexIDとして読み取る。
func (id *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

// MarshalJSON はFlexIDをJSON文字列として書き出す。
func (id FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

// UserSummary は上流のアイデンティティサービスから読み取ったユーザー要約を表す。
// リクエスト処理中はイミュータブルとして扱う。
type UserSummary struct {
	ID        FlexID `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"user_type"`
}

// Credential は認証済み呼び出し元を識別するベアラートークンとユーザー要約の組。
// トークンが空のCredentialは無効であり、上流に転送してはならない。
type Credential struct {
	Token string
	User  *UserSummary
}
