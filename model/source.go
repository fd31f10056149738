package model

// SourceFile 是流水线的输入单元：一个源文件及其包名。
// Package 为空时由扫描器从 package 声明中补全。
type SourceFile struct {
	Path    string
	Package string
	Source  []byte
}

// Location 描述了声明在源码中的位置
type Location struct {
	FilePath  string `json:"FilePath"`
	StartLine int    `json:"StartLine"`
	EndLine   int    `json:"EndLine"`
}
