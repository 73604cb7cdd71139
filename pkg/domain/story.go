package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SceneCount は1つの物語を構成するシーンの数です。
// テキスト生成バックエンドへの指示も、この数ちょうどの場面を要求します。
const SceneCount = 3

// Image は生成された挿絵の生バイト列とメディアタイプを保持します。
// データURI形式への変換は境界（保存・表示・条件付け入力の復号）でのみ行うのだ。
type Image struct {
	Data     []byte
	MimeType string
}

// DataURI は "data:<mime>;base64,<payload>" 形式の自己完結した文字列を返します。
func (img Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}

// IsEmpty は画像データが未設定かどうかを返します。
func (img Image) IsEmpty() bool {
	return len(img.Data) == 0
}

// ParseDataURI はデータURI文字列を構造化された Image に復元します。
// base64 エンコードされた画像データURIのみを受け付けます。
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Image{}, fmt.Errorf("データURIの形式ではないのだ: %.32q", uri)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("データURIにペイロード区切りが見つからないのだ")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mimeType == "" {
		return Image{}, fmt.Errorf("base64エンコードされたデータURIではないのだ: %q", meta)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("データURIのbase64復号に失敗したのだ: %w", err)
	}
	return Image{Data: data, MimeType: mimeType}, nil
}

// Scene は物語の1コマ（一文のテキストとその挿絵）です。
// 両フィールドは生成完了時に同時に設定され、以後変更されません。
type Scene struct {
	Text  string
	Image Image
}

// sceneJSON は永続化・表示境界での表現です。挿絵はデータURI文字列1本に畳み込まれます。
type sceneJSON struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

// MarshalJSON は境界表現（text + imageUrl データURI）へ変換します。
func (s Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(sceneJSON{
		Text:     s.Text,
		ImageURL: s.Image.DataURI(),
	})
}

// UnmarshalJSON は境界表現から内部の構造化表現へ復元します。
func (s *Scene) UnmarshalJSON(b []byte) error {
	var raw sceneJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	img, err := ParseDataURI(raw.ImageURL)
	if err != nil {
		return err
	}
	s.Text = raw.Text
	s.Image = img
	return nil
}

// Story は1回の生成で得られる、順序付きで3シーン完結の物語です。
// 3シーンすべてが成功した後にのみ構築され、部分生成された物語が外へ出ることはありません。
type Story struct {
	ID     string  `json:"id"`
	Theme  string  `json:"theme"`
	Scenes []Scene `json:"scenes"`
}

// NewStory は完成したシーン列から Story を構築します。
// シーン数が SceneCount と一致しない場合はエラーを返すのだ。
func NewStory(theme string, scenes []Scene) (Story, error) {
	if len(scenes) != SceneCount {
		return Story{}, fmt.Errorf("物語は%dシーンで完結する必要があるのだ（実際: %d）", SceneCount, len(scenes))
	}
	for i, scene := range scenes {
		if scene.Text == "" || scene.Image.IsEmpty() {
			return Story{}, fmt.Errorf("シーン%dが未完成のまま渡されたのだ", i+1)
		}
	}
	return Story{
		ID:     uuid.NewString(),
		Theme:  theme,
		Scenes: scenes,
	}, nil
}
