package output

import (
	"time"

	"github.com/ccollicutt/streamfilter/pkg/document"
	"github.com/ccollicutt/streamfilter/pkg/filter"
)

var baseTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func createResult(source string, lines []string, query string) *FileResult {
	doc := document.New(source, lines)
	view, err := filter.Filter(doc, query)
	if err != nil {
		panic(err)
	}
	return NewFileResult(doc, view)
}

func createTestReport() *Report {
	result := createResult("fruit.txt", []string{"apple", "banana", "applesauce", "grape"}, "appl")
	return NewReport("appl", []*FileResult{result}, baseTime, baseTime.Add(2*time.Millisecond))
}

func createMultiReport() *Report {
	a := createResult("a.txt", []string{"x1", "y", "x2"}, "x")
	b := createResult("b.txt", []string{"nothing"}, "x")
	c := createResult("c.txt", []string{"z", "x3"}, "x")
	return NewReport("x", []*FileResult{a, b, c}, baseTime, baseTime.Add(time.Second))
}
