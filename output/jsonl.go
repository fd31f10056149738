package output

import (
	"encoding/json"
	"io"

	"github.com/CodMac/go-spring-visualizer/graph"
)

// RecordType 区分 JSONL 中的记录类型
type RecordType string

const (
	RecordNode RecordType = "NODE"
	RecordEdge RecordType = "EDGE"
	RecordScan RecordType = "SCAN"
)

type nodeRecord struct {
	Type RecordType `json:"Type"`
	graph.Node
	Color string `json:"Color"`
}

type edgeRecord struct {
	Type RecordType `json:"Type"`
	graph.Edge
}

type scanRecord struct {
	Type RecordType `json:"Type"`
	graph.ScanDirective
	Covered []string `json:"Covered,omitempty"`
}

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		encoder: json.NewEncoder(w),
	}
}

func (w *JSONLWriter) Write(v any) error {
	return w.encoder.Encode(v)
}

// ExportGraph 依次导出节点、边和扫描指令，每行一个 JSON 对象，返回写出的记录数
func ExportGraph(w io.Writer, g *graph.Graph) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0

	// 1. 导出节点
	for _, n := range g.Nodes() {
		if err := writer.Write(nodeRecord{Type: RecordNode, Node: n, Color: n.Color()}); err != nil {
			return count, err
		}
		count++
	}

	// 2. 导出边
	for _, e := range g.Edges() {
		if err := writer.Write(edgeRecord{Type: RecordEdge, Edge: e}); err != nil {
			return count, err
		}
		count++
	}

	// 3. 导出扫描指令及其覆盖的组件
	for _, s := range g.Scans() {
		rec := scanRecord{Type: RecordScan, ScanDirective: s}
		for _, n := range g.ScannedBy(s) {
			rec.Covered = append(rec.Covered, n.Name)
		}
		if err := writer.Write(rec); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
