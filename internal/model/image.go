// Package model 包含了应用的数据模型定义。
package model

import "encoding/json"

// ImageRef 表示车源图片的引用。
// 历史数据里 image 字段有两种形态：裸的 URL 字符串，或 {"url":"...","key":"..."} 对象。
// 这里在解码边界统一成一个结构，后续代码不再做类型嗅探。
type ImageRef struct {
	URL string `gorm:"type:varchar(500)" json:"url,omitempty"`
	Key string `gorm:"type:varchar(255)" json:"key,omitempty"`
}

// UnmarshalJSON 同时接受字符串形态与对象形态的 image 字段。
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = ImageRef{}
		return nil
	}
	if data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*r = ImageRef{URL: url}
		return nil
	}
	type plain ImageRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ImageRef(p)
	return nil
}

// IsZero 判断是否没有任何图片引用。
func (r ImageRef) IsZero() bool {
	return r.URL == "" && r.Key == ""
}

// Stored 判断图片是否存放在对象存储中（仅有 key 没有直链）。
func (r ImageRef) Stored() bool {
	return r.Key != "" && r.URL == ""
}
