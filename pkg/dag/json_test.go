package dag

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestJSONKeepsOrderAndMetadata(t *testing.T) {
	d := New(Metadata{"session": "s1"})
	d.AddNode(Node{ID: "react", Version: "18.2.0", Meta: Metadata{"origin": "npm"}})
	d.AddNode(Node{ID: "loose-envify", Version: "1.4.0"})
	d.AddNode(Node{ID: "js-tokens", Version: "4.0.0"})
	d.AddEdge(Edge{From: "react", To: "loose-envify"})
	d.AddEdge(Edge{From: "loose-envify", To: "js-tokens"})

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if ids := NodeIDs(got.Nodes()); strings.Join(ids, ",") != "react,loose-envify,js-tokens" {
		t.Errorf("node order = %v", ids)
	}
	if n, _ := got.Node("react"); n.Version != "18.2.0" || n.Meta["origin"] != "npm" {
		t.Errorf("react = %+v", n)
	}
	if got.Meta()["session"] != "s1" {
		t.Errorf("graph meta = %v", got.Meta())
	}
	order, err := got.Sort()
	if err != nil || strings.Join(order, ",") != "js-tokens,loose-envify,react" {
		t.Errorf("Sort = %v, %v", order, err)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := map[string]struct {
		in   string
		want error
	}{
		"duplicate":    {`{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, ErrDuplicateNodeID},
		"unknown from": {`{"nodes":[{"id":"a"}],"edges":[{"from":"x","to":"a"}]}`, ErrUnknownSourceNode},
		"unknown to":   {`{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"x"}]}`, ErrUnknownTargetNode},
		"empty id":     {`{"nodes":[{"id":""}],"edges":[]}`, ErrInvalidNodeID},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("malformed input should fail")
	}
}
