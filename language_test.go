package prscope_test

import (
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want prscope.Language
	}{
		{"python def", "def main():\n    pass", prscope.LanguagePython},
		{"python import", "import os", prscope.LanguagePython},
		{"java class", "public class Main {}", prscope.LanguageJava},
		{"java println", "System.out.println(x);", prscope.LanguageJava},
		{"react hook", "const [x, setX] = useState(0);", prscope.LanguageReact},
		{"react jsx return", "return (<div/>);", prscope.LanguageReact},
		{"jsx return needs a tag name", "return (< div>)", prscope.LanguageUnknown},
		{"jsx fragment return", "return (<>)", prscope.LanguageUnknown},
		{"jsx extension", "see App.jsx", prscope.LanguageReact},
		{"python wins over java", "class Foo(object):\n    def run(self): pass", prscope.LanguagePython},
		{"unknown", "SELECT 1;", prscope.LanguageUnknown},
		{"empty", "", prscope.LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, prscope.DetectLanguage(tt.text))
		})
	}
}
