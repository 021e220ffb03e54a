// Package username 提供随机访客昵称的生成功能。
package username

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// Generate 生成一个"形容词+动物+数字"形式的访客昵称，例如 SwiftFox42。
// 昵称不与任何账号绑定，每次调用都是独立的随机结果。
func Generate() string {
	adjective := capitalize(sanitize(gofakeit.AdjectiveDescriptive()))
	animal := capitalize(sanitize(gofakeit.AnimalType()))
	number := rand.Intn(1000)
	return fmt.Sprintf("%s%s%d", adjective, animal, number)
}

// sanitize 去掉词里的空格和连字符，保证昵称是单个词。
func sanitize(word string) string {
	word = strings.ReplaceAll(word, " ", "")
	return strings.ReplaceAll(word, "-", "")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
