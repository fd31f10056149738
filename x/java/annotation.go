package java

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/CodMac/go-spring-visualizer/model"
)

// ErrMalformedAnnotation 表示注解文本无法解析
var ErrMalformedAnnotation = errors.New("malformed annotation")

// ParseAnnotation 把一个原始注解 token (e.g., `@ComponentScan({"a", "b"})`) 解析为名称和有序参数。
// 支持无参、单值、字符串、花括号数组和 key = value 形式；不认识的取值保留为 Opaque。
func ParseAnnotation(raw string) (model.Annotation, error) {
	p := newAnnotationParser(raw)
	anno, err := p.parse()
	if err != nil {
		return model.Annotation{}, fmt.Errorf("%w %q: %v", ErrMalformedAnnotation, raw, err)
	}
	return anno, nil
}

type annotationParser struct {
	src string
	s   scanner.Scanner
	tok rune
	err error
}

func newAnnotationParser(raw string) *annotationParser {
	p := &annotationParser{src: raw}
	p.s.Init(strings.NewReader(raw))
	p.s.Filename = "annotation"
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanChars |
		scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || ch == '$' || unicode.IsLetter(ch) || (unicode.IsDigit(ch) && i > 0)
	}
	p.s.Error = func(_ *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = errors.New(msg)
		}
	}
	p.next()
	return p
}

func (p *annotationParser) next() {
	p.tok = p.s.Scan()
}

// offset 是当前 token 的起始偏移
func (p *annotationParser) offset() int {
	if p.tok == scanner.EOF {
		return len(p.src)
	}
	return p.s.Position.Offset
}

func (p *annotationParser) expect(tok rune) error {
	if p.tok != tok {
		return fmt.Errorf("expected %s, found %s", scanner.TokenString(tok), scanner.TokenString(p.tok))
	}
	p.next()
	return nil
}

func (p *annotationParser) parse() (model.Annotation, error) {
	if err := p.expect('@'); err != nil {
		return model.Annotation{}, err
	}
	if p.tok != scanner.Ident {
		return model.Annotation{}, fmt.Errorf("expected annotation name, found %s", scanner.TokenString(p.tok))
	}
	qn := p.qualifiedName()
	anno := model.Annotation{Name: qn, QualifiedName: qn}
	if i := strings.LastIndex(qn, "."); i >= 0 {
		anno.Name = qn[i+1:]
	}

	if p.tok == '(' {
		p.next()
		if p.tok != ')' {
			args, err := p.parseArgs()
			if err != nil {
				return model.Annotation{}, err
			}
			anno.Args = args
		}
		if err := p.expect(')'); err != nil {
			return model.Annotation{}, err
		}
	}
	if p.tok != scanner.EOF {
		return model.Annotation{}, fmt.Errorf("unexpected trailing %s", scanner.TokenString(p.tok))
	}
	if p.err != nil {
		return model.Annotation{}, p.err
	}
	return anno, nil
}

// qualifiedName 读取 ident ('.' ident)*，"Foo.class" 也按此读取
func (p *annotationParser) qualifiedName() string {
	var sb strings.Builder
	sb.WriteString(p.s.TokenText())
	p.next()
	for p.tok == '.' {
		p.next()
		if p.tok != scanner.Ident {
			break
		}
		sb.WriteByte('.')
		sb.WriteString(p.s.TokenText())
		p.next()
	}
	return sb.String()
}

func (p *annotationParser) parseArgs() ([]model.AnnotationArg, error) {
	var args []model.AnnotationArg
	for {
		key := model.DefaultArgKey
		var v model.Value
		if p.tok == scanner.Ident {
			start := p.offset()
			name := p.qualifiedName()
			if p.tok == '=' && !strings.Contains(name, ".") {
				key = name
				p.next()
				v = p.elementValue()
			} else {
				v = p.afterName(name, start)
			}
		} else {
			v = p.elementValue()
		}
		if p.err != nil {
			return nil, p.err
		}
		args = append(args, model.AnnotationArg{Key: key, Value: v})

		if p.tok != ',' {
			return args, nil
		}
		p.next()
	}
}

func (p *annotationParser) elementValue() model.Value {
	start := p.offset()
	switch p.tok {
	case scanner.String:
		text := p.s.TokenText()
		p.next()
		if !p.atValueEnd() {
			// 字符串拼接等表达式
			return p.opaqueFrom(start)
		}
		if s, err := strconv.Unquote(text); err == nil {
			return model.StringValue(s)
		}
		return model.StringValue(strings.Trim(text, `"`))
	case '{':
		p.next()
		var items []model.Value
		for p.tok != '}' && p.tok != scanner.EOF && p.err == nil {
			items = append(items, p.elementValue())
			if p.tok != ',' {
				break
			}
			p.next()
		}
		if p.tok != '}' {
			if p.err == nil {
				p.err = fmt.Errorf("unterminated array, found %s", scanner.TokenString(p.tok))
			}
			return model.ListValue(items...)
		}
		p.next()
		return model.ListValue(items...)
	case scanner.Ident:
		name := p.qualifiedName()
		return p.afterName(name, start)
	default:
		return p.opaqueFrom(start)
	}
}

// afterName 处理已经读取了限定名之后的取值
func (p *annotationParser) afterName(name string, start int) model.Value {
	if !p.atValueEnd() {
		return p.opaqueFrom(start)
	}
	switch name {
	case "true", "false", "null":
		return model.OpaqueValue(name)
	}
	return model.ClassValue(strings.TrimSuffix(name, ".class"))
}

func (p *annotationParser) atValueEnd() bool {
	return p.tok == ',' || p.tok == ')' || p.tok == '}' || p.tok == scanner.EOF
}

// opaqueFrom 跳过一个任意表达式直到同层的 ',' ')' '}'，返回原文
func (p *annotationParser) opaqueFrom(start int) model.Value {
	depth := 0
	for p.tok != scanner.EOF && p.err == nil {
		if depth == 0 && p.atValueEnd() {
			break
		}
		switch p.tok {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		}
		p.next()
	}
	end := p.offset()
	if end < start {
		end = start
	}
	return model.OpaqueValue(strings.TrimSpace(p.src[start:end]))
}
