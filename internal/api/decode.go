package api

import (
	"encoding/json"
	"fmt"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/tidwall/gjson"
)

// unwrap returns the data member of an envelope body, or body itself. An envelope is an object
// carrying both a boolean "success" and a "data" member.
func unwrap(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return body, nil
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return body, nil
	}

	success, data := root.Get("success"), root.Get("data")
	if !data.Exists() || (success.Type != gjson.True && success.Type != gjson.False) {
		return body, nil
	}
	if !success.Bool() {
		msg := errorMessage(body)
		if msg == "" {
			msg = "backend reported failure"
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, msg)
	}
	return []byte(data.Raw), nil
}

func decode(body []byte, out any) error {
	data, err := unwrap(body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeList(body []byte, key string, out any) error {
	data, err := unwrap(body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	if r := gjson.ParseBytes(data); r.IsObject() {
		if items := r.Get(key); items.Exists() {
			data = []byte(items.Raw)
		}
	}
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
