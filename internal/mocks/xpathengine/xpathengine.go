// Package xpathengine is a hand-maintained gomock double for
// pkg/extract's XPathEngine interface, mirroring the shape mockgen would
// produce (and the way internal/mocks' RoundTripper double is used against
// pkg/client's tests).
package xpathengine

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	xmlmerkle "github.com/mmsapre/docmerkle/pkg/xmlmerkle"
)

// MockXPathEngine is a mock of the extract.XPathEngine interface.
type MockXPathEngine struct {
	ctrl     *gomock.Controller
	recorder *MockXPathEngineMockRecorder
}

// MockXPathEngineMockRecorder is the mock recorder for MockXPathEngine.
type MockXPathEngineMockRecorder struct {
	mock *MockXPathEngine
}

// NewMockXPathEngine creates a new mock instance.
func NewMockXPathEngine(ctrl *gomock.Controller) *MockXPathEngine {
	mock := &MockXPathEngine{ctrl: ctrl}
	mock.recorder = &MockXPathEngineMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockXPathEngine) EXPECT() *MockXPathEngineMockRecorder {
	return m.recorder
}

func (m *MockXPathEngine) EvaluateString(doc *xmlmerkle.Document, expr string, namespaces map[string]string) (string, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EvaluateString", doc, expr, namespaces)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockXPathEngineMockRecorder) EvaluateString(doc, expr, namespaces interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EvaluateString", reflect.TypeOf((*MockXPathEngine)(nil).EvaluateString), doc, expr, namespaces)
}

func (m *MockXPathEngine) EvaluateStrings(doc *xmlmerkle.Document, expr string, namespaces map[string]string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EvaluateStrings", doc, expr, namespaces)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockXPathEngineMockRecorder) EvaluateStrings(doc, expr, namespaces interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EvaluateStrings", reflect.TypeOf((*MockXPathEngine)(nil).EvaluateStrings), doc, expr, namespaces)
}

func (m *MockXPathEngine) EvaluateElements(doc *xmlmerkle.Document, expr string, namespaces map[string]string) ([]*xmlmerkle.Element, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EvaluateElements", doc, expr, namespaces)
	ret0, _ := ret[0].([]*xmlmerkle.Element)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockXPathEngineMockRecorder) EvaluateElements(doc, expr, namespaces interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EvaluateElements", reflect.TypeOf((*MockXPathEngine)(nil).EvaluateElements), doc, expr, namespaces)
}

func (m *MockXPathEngine) EvaluateStringOnElement(el *xmlmerkle.Element, expr string, namespaces map[string]string) (string, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EvaluateStringOnElement", el, expr, namespaces)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockXPathEngineMockRecorder) EvaluateStringOnElement(el, expr, namespaces interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EvaluateStringOnElement", reflect.TypeOf((*MockXPathEngine)(nil).EvaluateStringOnElement), el, expr, namespaces)
}
