// Package help 保存 API 密钥获取说明，内容只读。
package help

import "sort"

// Provider 标识外部 LLM 服务。
type Provider string

const (
	Gemini Provider = "gemini"
	OpenAI Provider = "openai"
)

var texts = map[Provider]string{
	Gemini: `[Gemini API 키 얻는 방법]

1. Google AI Studio 접속
   - https://makersuite.google.com/app/apikey 에 접속합니다.

2. Google 계정으로 로그인
   - Google 계정이 없다면 새로 만드세요.

3. API 키 생성
   - 'Create API Key' 버튼을 클릭합니다.
   - 새로 생성된 API 키를 복사합니다.

4. API 키 사용
   - 복사한 API 키를 프로그램의 Gemini API 키 입력란에 붙여넣습니다.

주의사항:
- API 키는 비밀번호처럼 안전하게 보관하세요.
- API 키가 노출되면 즉시 재발급 받으세요.
- 무료 사용량 제한이 있으니 참고하세요.`,

	OpenAI: `[OpenAI API 키 얻는 방법]

1. OpenAI 웹사이트 접속
   - https://platform.openai.com/api-keys 에 접속합니다.

2. OpenAI 계정 생성/로그인
   - 계정이 없다면 새로 만드세요.
   - 로그인 후 API 키 페이지로 이동합니다.

3. API 키 생성
   - 'Create new secret key' 버튼을 클릭합니다.
   - 키 이름을 입력하고 생성합니다.
   - 새로 생성된 API 키를 복사합니다.

4. API 키 사용
   - 복사한 API 키를 프로그램의 OpenAI API 키 입력란에 붙여넣습니다.

주의사항:
- API 키는 비밀번호처럼 안전하게 보관하세요.
- API 키가 노출되면 즉시 재발급 받으세요.`,
}

// Text 返回指定服务的说明文本。
func Text(p Provider) (string, bool) {
	t, ok := texts[p]
	return t, ok
}

// Providers 返回所有已知服务，按名称排序。
func Providers() []Provider {
	out := make([]Provider, 0, len(texts))
	for p := range texts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
