package i18n

import "strings"

// Message keys are the English texts. Locales without an entry fall back to the key.
var messages = []string{
	"login success",
	"Invalid credentials",
	"Logout Success",
	"Generate success.",
	"Please login to access this page",
	"Item created.",
	"Item updated.",
	"Item deleted.",
	"Item toggled.",
	"Completed items cleared.",
	"Password updated.",
	"Locale updated.",
	"Validation failed",
	"Bad request",
	"Unauthorized",
	"Forbidden",
	"Page Not Found",
	"Method Not Allowed",
	"Too Many Requests",
	"Internal Server Error",
	"Login",
	"Logout",
	"Username",
	"Password",
	"Try a demo account",
	"What needs to be done?",
	"All",
	"Active",
	"Completed",
	"Clear completed",
	"items left",
	"Back to home",
	"Nothing here yet.",
	"Item not found.",
	"Current password is incorrect.",
	"The grant type must be password.",
	"Either the username or password was invalid.",
	"Done",
	"Undo",
	"Save",
	"Delete",
}

var zhHansCN = map[string]string{
	"login success":                                "登录成功",
	"Invalid credentials":                          "用户名或密码错误",
	"Logout Success":                               "已退出登录",
	"Generate success.":                            "生成成功。",
	"Please login to access this page":             "请先登录再访问此页面",
	"Item created.":                                "已添加条目。",
	"Item updated.":                                "已更新条目。",
	"Item deleted.":                                "已删除条目。",
	"Item toggled.":                                "已切换条目状态。",
	"Completed items cleared.":                     "已清除完成的条目。",
	"Password updated.":                            "密码已更新。",
	"Locale updated.":                              "语言已更新。",
	"Validation failed":                            "输入无效",
	"Bad request":                                  "错误的请求",
	"Unauthorized":                                 "未授权",
	"Forbidden":                                    "禁止访问",
	"Page Not Found":                               "页面未找到",
	"Method Not Allowed":                           "方法不被允许",
	"Too Many Requests":                            "请求过于频繁",
	"Internal Server Error":                        "服务器内部错误",
	"Login":                                        "登录",
	"Logout":                                       "退出",
	"Username":                                     "用户名",
	"Password":                                     "密码",
	"Try a demo account":                           "试用演示账户",
	"What needs to be done?":                       "需要做什么？",
	"All":                                          "全部",
	"Active":                                       "未完成",
	"Completed":                                    "已完成",
	"Clear completed":                              "清除已完成",
	"items left":                                   "项未完成",
	"Back to home":                                 "返回首页",
	"Nothing here yet.":                            "这里还没有内容。",
	"Item not found.":                              "条目不存在。",
	"Current password is incorrect.":               "当前密码不正确。",
	"The grant type must be password.":             "授权类型必须为 password。",
	"Either the username or password was invalid.": "用户名或密码无效。",
	"Done":                                         "完成",
	"Undo":                                         "撤销",
	"Save":                                         "保存",
	"Delete":                                       "删除",
}

// translationsFor returns the catalog entries for locale.
func translationsFor(locale string) map[string]string {
	out := make(map[string]string, len(messages))
	var table map[string]string
	if strings.HasPrefix(locale, "zh") {
		table = zhHansCN
	}
	for _, key := range messages {
		if text, ok := table[key]; ok {
			out[key] = text
		} else {
			out[key] = key
		}
	}
	return out
}
