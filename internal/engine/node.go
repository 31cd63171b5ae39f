package engine

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// NodeKind identifies the JSON value held by a Node.
type NodeKind int

const (
	NodeNull NodeKind = iota
	NodeObject
	NodeArray
	NodeString
	NodeNumber
	NodeBool
)

func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Node is one decoded JSON value. Objects keep their members in source order.
type Node struct {
	Kind    NodeKind
	Members []Member
	Items   []*Node
	String  string
	Number  string
	Bool    bool
	// Path is the JSON Pointer of this value within the decoded document.
	Path string
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Get returns the value stored under key in an object node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != NodeObject {
		return nil, false
	}
	for _, m := range n.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Int returns the numeric value of a number node as an int64.
func (n *Node) Int() (int64, bool) {
	if n == nil || n.Kind != NodeNumber {
		return 0, false
	}
	if v, err := strconv.ParseInt(n.Number, 10, 64); err == nil {
		return v, true
	}
	// float-formatted integers such as "1e+06"
	f, err := strconv.ParseFloat(n.Number, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// DecodeBytes decodes a complete JSON document. Duplicate object keys and
// trailing data after the root value are reported as IssueError.
func DecodeBytes(b []byte) (*Node, error) {
	return Decode(NewBytes(b))
}

// Decode builds a node tree from the token source and requires the source to
// be exhausted after the root value.
func Decode(src TokenSource) (*Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, IssueError{Issue{Code: "parse_error", Message: "empty document"}}
		}
		return nil, parseError("", err)
	}
	root, err := decodeValue(src, tok, "")
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err == nil {
		return nil, IssueError{Issue{Code: "parse_error", Message: "trailing data after document"}}
	} else if !errors.Is(err, io.EOF) {
		return nil, parseError("", err)
	}
	return root, nil
}

func decodeValue(src TokenSource, tok Token, path string) (*Node, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, path)
	case KindBeginArray:
		return decodeArray(src, path)
	case KindString:
		return &Node{Kind: NodeString, String: tok.String, Path: path}, nil
	case KindNumber:
		return &Node{Kind: NodeNumber, Number: tok.Number, Path: path}, nil
	case KindBool:
		return &Node{Kind: NodeBool, Bool: tok.Bool, Path: path}, nil
	case KindNull:
		return &Node{Kind: NodeNull, Path: path}, nil
	default:
		return nil, IssueError{Issue{Code: "parse_error", Path: path, Message: "unexpected " + tok.Kind.String()}}
	}
}

func decodeObject(src TokenSource, path string) (*Node, error) {
	n := &Node{Kind: NodeObject, Path: path}
	seen := make(map[string]struct{})
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, parseError(path, err)
		}
		if tok.Kind == KindEndObject {
			return n, nil
		}
		if tok.Kind != KindKey {
			return nil, IssueError{Issue{Code: "parse_error", Path: path, Message: "expected object key, got " + tok.Kind.String()}}
		}
		key := tok.String
		if _, dup := seen[key]; dup {
			return nil, IssueError{Issue{Code: "duplicate_key", Path: path, Message: "key '" + key + "' duplicated"}}
		}
		seen[key] = struct{}{}
		vt, err := src.NextToken()
		if err != nil {
			return nil, parseError(path, err)
		}
		v, err := decodeValue(src, vt, path+"/"+EscapePointer(key))
		if err != nil {
			return nil, err
		}
		n.Members = append(n.Members, Member{Key: key, Value: v})
	}
}

func decodeArray(src TokenSource, path string) (*Node, error) {
	n := &Node{Kind: NodeArray, Path: path}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, parseError(path, err)
		}
		if tok.Kind == KindEndArray {
			return n, nil
		}
		v, err := decodeValue(src, tok, path+"/"+strconv.Itoa(len(n.Items)))
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, v)
	}
}

func parseError(path string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return IssueError{Issue{Code: "parse_error", Path: path, Message: err.Error()}}
}

// EscapePointer escapes a single JSON Pointer reference token (RFC 6901).
func EscapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
