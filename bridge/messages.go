package bridge

import "golang.org/x/text/language"

// Messages holds the user visible strings of the bridge and success pages.
type Messages struct {
	Lang                string
	Processing          string
	ProcessingDesc      string
	TokenNotFound       string
	TokenNotFoundDesc   string
	ConnectionError     string
	ConnectionErrorDesc string
	SuccessTitle        string
	SuccessDesc         string
}

var Vietnamese = Messages{
	Lang:                "vi",
	Processing:          "Đang xử lý kết nối...",
	ProcessingDesc:      "Vui lòng đợi giây lát để ứng dụng nhận token.",
	TokenNotFound:       "Không tìm thấy Token",
	TokenNotFoundDesc:   "Vui lòng thực hiện lại quy trình đăng nhập.",
	ConnectionError:     "Lỗi kết nối",
	ConnectionErrorDesc: "Không thể gửi token về ứng dụng: ",
	SuccessTitle:        "Xác thực thành công!",
	SuccessDesc:         "Đã nhận được khóa truy cập. Bạn có thể đóng cửa sổ này và quay lại ứng dụng.",
}

var English = Messages{
	Lang:                "en",
	Processing:          "Connecting...",
	ProcessingDesc:      "Please wait while the application receives the token.",
	TokenNotFound:       "Token not found",
	TokenNotFoundDesc:   "Please sign in again.",
	ConnectionError:     "Connection error",
	ConnectionErrorDesc: "Could not send the token to the application: ",
	SuccessTitle:        "Signed in!",
	SuccessDesc:         "The access token was received. You can close this window and return to the application.",
}

// The first entry is the fallback for unmatched locales.
var catalog = []struct {
	tag      language.Tag
	messages Messages
}{
	{language.Vietnamese, Vietnamese},
	{language.English, English},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(catalog))
	for _, c := range catalog {
		tags = append(tags, c.tag)
	}
	return language.NewMatcher(tags)
}()

// MessagesFor returns the closest message set for a BCP 47 locale or
// Accept-Language style list, e.g. "en-GB" or "fr, en;q=0.8".
func MessagesFor(locale string) Messages {
	_, index := language.MatchStrings(matcher, locale)
	return catalog[index].messages
}
