package java

import "strings"

// TypeName 去掉类型文本上的注解、泛型实参、数组维度和可变参数，保留包限定
// (e.g., "@NonNull java.util.List<Foo>[]" -> "java.util.List")。
func TypeName(raw string) string {
	t := strings.TrimSpace(raw)
	// 类型上的注解 (e.g., "@NonNull Foo")
	for strings.HasPrefix(t, "@") {
		i := strings.IndexAny(t, " \t\n")
		if i < 0 {
			return ""
		}
		t = strings.TrimSpace(t[i:])
	}
	if i := strings.Index(t, "<"); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimSpace(strings.TrimSuffix(t, "..."))
	for strings.HasSuffix(t, "[]") {
		t = strings.TrimSpace(strings.TrimSuffix(t, "[]"))
	}
	return t
}

// SimpleTypeName 将源码中的类型文本规约为简单类名 (e.g., "java.util.List<Foo>[]" -> "List")。
func SimpleTypeName(raw string) string {
	t := TypeName(raw)
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimSpace(t)
}

// QualifierOf 返回类型文本中显式写出的包限定部分，没有则返回空串
func QualifierOf(raw string) string {
	t := TypeName(raw)
	if i := strings.LastIndex(t, "."); i >= 0 {
		return t[:i]
	}
	return ""
}
