/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package walker_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"dirpx.dev/dictx/apis"
	"dirpx.dev/dictx/classifier"
	"dirpx.dev/dictx/config"
	"dirpx.dev/dictx/registry"
	"dirpx.dev/dictx/store"
	"dirpx.dev/dictx/strategy"
	uref "dirpx.dev/dictx/utils/reflect"
	"dirpx.dev/dictx/walker"
)

const pkg = "dirpx.dev/dictx/walker_test"

// happy ignores the value: it doubles a non-empty suffix, or echoes the value.
type happy struct{}

func (happy) Translate(req apis.Request) (string, bool) {
	if req.Directive.Suffix != "" {
		return req.Directive.Suffix + req.Directive.Suffix, true
	}
	return uref.Stringify(req.Value)
}

func newWalker(t *testing.T, d apis.Dictionary, opts ...config.Option) *walker.Walker {
	t.Helper()
	return build(t, d, config.NewConfig(append([]config.Option{config.WithBusinessPackages(pkg)}, opts...)...))
}

func build(t *testing.T, d apis.Dictionary, cfg apis.Config) *walker.Walker {
	t.Helper()
	s := store.New()
	s.Load(d)

	reg := registry.New()
	strategy.RegisterBuiltins(reg)
	if err := reg.RegisterType("happy", happy{}); err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	if err := reg.Register("boom", func() apis.Translator {
		return apis.TranslatorFunc(func(apis.Request) (string, bool) { panic("boom") })
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	return walker.New(cfg, s, reg, classifier.Default(cfg.BusinessPackages), zaptest.NewLogger(t))
}

func snapshotOf(t *testing.T, w *walker.Walker, obj any) *walker.Result {
	t.Helper()
	v, err := w.Snapshot(obj)
	if err != nil {
		t.Fatalf("Snapshot: unexpected error: %v", err)
	}
	r, ok := v.(*walker.Result)
	if !ok {
		t.Fatalf("Snapshot returned %T, want *walker.Result", v)
	}
	return r
}

// Fixtures mirroring a typical business graph.

type MyDictObject struct {
	Level                     string `dict:"suffix=veryGood"`
	TestDict                  string `dict:""`
	NoExistsMappingAnnotation string
	StringNull                *string `dict:"testDict"`
	LongNull                  *int64  `dict:"testDict"`
	Long1                     int64   `dict:"code=testDict,suffix=lalala"`
	Long2                     int64   `dict:"code=testDict,suffix=lalala"`
	BaseInt1                  int     `dict:"code=testDict,suffix=veryGood"`
	Happy                     string  `dict:"suffix=123,translator=happy"`
	Bad                       string  `dict:"translator=happy"`
	SimpleObject              *SimpleObject
	SimpleObjectNull          *SimpleObject
	TestCollection            []*SimpleObject
	Amounts                   []float64
}

type SimpleObject struct {
	Level          string `dict:"suffix=veryGood"`
	TestCollection []EasyObject
}

type EasyObject struct {
	Level string `dict:"testDict"`
}

func newMyDictObject() *MyDictObject {
	return &MyDictObject{
		Level:                     "1",
		TestDict:                  "1",
		NoExistsMappingAnnotation: "1",
		Long1:                     1,
		Long2:                     2,
		BaseInt1:                  1,
		Happy:                     "happy",
		Bad:                       "1",
		SimpleObject:              newSimpleObject(),
		TestCollection:            []*SimpleObject{newSimpleObject()},
		Amounts:                   []float64{0, 1},
	}
}

func newSimpleObject() *SimpleObject {
	return &SimpleObject{Level: "1", TestCollection: []EasyObject{{Level: "1"}}}
}

var mappingDict = apis.Dictionary{
	"testDict": {"1": "value"},
	"TestDict": {"1": "value"},
	"Level":    {"1": "first"},
}

type AutoCode struct {
	TaskStatus string `json:"task_status" dict:""`
}

func TestAutoCode_UsesGoFieldName(t *testing.T) {
	w := newWalker(t, apis.Dictionary{
		"taskStatus": {"1": "lower"},
		"TaskStatus": {"1": "go"},
	}, config.WithFieldNaming(apis.NamingJSON))

	got := snapshotOf(t, w, &AutoCode{TaskStatus: "1"})
	if got.Text("task_status") != "go" {
		t.Fatalf("task_status = %q, want go", got.Text("task_status"))
	}
}

func TestSnapshot_BusinessGraph(t *testing.T) {
	w := newWalker(t, mappingDict)
	src := newMyDictObject()

	got := snapshotOf(t, w, src)

	simple := map[string]any{
		"Level":          "firstveryGood",
		"TestCollection": []any{map[string]any{"Level": "value"}},
	}
	want := map[string]any{
		"Level":          "firstveryGood",
		"TestDict":       "value",
		"StringNull":     nil,
		"LongNull":       nil,
		"Long1":          "valuelalala",
		"Long2":          nil,
		"BaseInt1":       "valueveryGood",
		"Happy":          "123123",
		"Bad":            "1",
		"SimpleObject":   simple,
		"TestCollection": []any{simple},
		"Amounts":        []any{nil, nil},
	}
	if diff := cmp.Diff(want, got.Map()); diff != "" {
		t.Fatalf("Snapshot mismatch (-want +got):\n%s", diff)
	}

	if _, ok := got.Get("NoExistsMappingAnnotation"); ok {
		t.Fatalf("untagged scalar field must not appear")
	}
	if _, ok := got.Get("SimpleObjectNull"); ok {
		t.Fatalf("nil business field must not appear")
	}

	// The source is untouched.
	if src.Level != "1" || src.SimpleObject.Level != "1" {
		t.Fatalf("Snapshot mutated its input: %+v", src)
	}
}

func TestFill_BusinessGraph(t *testing.T) {
	w := newWalker(t, mappingDict)
	obj := newMyDictObject()

	if err := w.Fill(obj); err != nil {
		t.Fatalf("Fill: unexpected error: %v", err)
	}

	checks := []struct {
		name, got, want string
	}{
		{"Level", obj.Level, "firstveryGood"},
		{"TestDict", obj.TestDict, "value"},
		{"NoExistsMappingAnnotation", obj.NoExistsMappingAnnotation, "1"},
		{"Happy", obj.Happy, "123123"},
		{"Bad", obj.Bad, "1"},
		{"SimpleObject.Level", obj.SimpleObject.Level, "firstveryGood"},
		{"TestCollection[0].Level", obj.TestCollection[0].Level, "firstveryGood"},
		{"TestCollection[0].TestCollection[0].Level", obj.TestCollection[0].TestCollection[0].Level, "value"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}

	// Non-string fields are never written.
	if obj.Long1 != 1 || obj.Long2 != 2 || obj.BaseInt1 != 1 {
		t.Errorf("numeric fields changed: %d %d %d", obj.Long1, obj.Long2, obj.BaseInt1)
	}
	if obj.StringNull != nil || obj.LongNull != nil {
		t.Errorf("pointer fields changed")
	}
	if len(obj.Amounts) != 2 {
		t.Errorf("Amounts changed: %v", obj.Amounts)
	}
}

type MultiValueObject struct {
	TaskStatus         string  `dict:""`
	MixedStatus        string  `dict:"code=taskStatus"`
	PriorityWithSuffix string  `dict:"code=priority,suffix=任务"`
	NoMatchStatus      string  `dict:"code=taskStatus"`
	NullStatus         *string `dict:""`
	EmptyStatus        string  `dict:"suffix=状态,translator=multi"`
	SingleStatus       string  `dict:"code=taskStatus"`
	MultiSingle        string  `dict:"code=taskStatus,translator=multi"`
	Missing            string  `dict:"code=taskStatus"`
}

var multiDict = apis.Dictionary{
	"TaskStatus": {"1": "未开始", "2": "进行中", "3": "已完成"},
	"taskStatus": {"1": "未开始", "2": "进行中", "3": "已完成"},
	"priority":   {"HIGH": "高优先级", "MEDIUM": "中优先级", "LOW": "低优先级"},
}

func newMultiValueObject() *MultiValueObject {
	return &MultiValueObject{
		TaskStatus:         "1,2,3",
		MixedStatus:        "1,2,3,4",
		PriorityWithSuffix: "HIGH,LOW",
		NoMatchStatus:      "X,Y,Z",
		EmptyStatus:        "",
		SingleStatus:       "2",
		MultiSingle:        "4",
		Missing:            "4",
	}
}

func TestSnapshot_MultiValue(t *testing.T) {
	w := newWalker(t, multiDict)
	got := snapshotOf(t, w, newMultiValueObject())

	want := map[string]any{
		"TaskStatus":         "未开始,进行中,已完成",
		"MixedStatus":        "未开始,进行中,已完成,4",
		"PriorityWithSuffix": "高优先级任务,低优先级任务",
		"NoMatchStatus":      "X,Y,Z",
		"NullStatus":         nil,
		"EmptyStatus":        "状态",
		"SingleStatus":       "进行中",
		"MultiSingle":        "4",
		"Missing":            nil,
	}
	if diff := cmp.Diff(want, got.Map()); diff != "" {
		t.Fatalf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_MultiValue(t *testing.T) {
	w := newWalker(t, multiDict)
	obj := newMultiValueObject()
	if err := w.Fill(obj); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	want := &MultiValueObject{
		TaskStatus:         "未开始,进行中,已完成",
		MixedStatus:        "未开始,进行中,已完成,4",
		PriorityWithSuffix: "高优先级任务,低优先级任务",
		NoMatchStatus:      "X,Y,Z",
		EmptyStatus:        "状态",
		SingleStatus:       "进行中",
		MultiSingle:        "4",
		Missing:            "",
	}
	if diff := cmp.Diff(want, obj); diff != "" {
		t.Fatalf("Fill mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotThenFill_RoundTrip(t *testing.T) {
	w := newWalker(t, multiDict)
	obj := &EasyStatus{A: "1", B: "2", Nested: &EasyStatus{A: "3", B: "1"}}

	snap := snapshotOf(t, w, obj)
	if err := w.Fill(obj); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if obj.A != snap.Text("A") || obj.B != snap.Text("B") {
		t.Fatalf("round trip mismatch: %+v vs %v", obj, snap.Map())
	}
	nested := snap.Nested("Nested")
	if obj.Nested.A != nested.Text("A") || obj.Nested.B != nested.Text("B") {
		t.Fatalf("nested round trip mismatch: %+v vs %v", obj.Nested, nested.Map())
	}
}

type EasyStatus struct {
	A      string `dict:"taskStatus"`
	B      string `dict:"code=taskStatus,suffix=!"`
	Nested *EasyStatus
}

// Status is a business type that is not a struct.
type Status string

type Inner struct {
	Code string `dict:"taskStatus"`
}

type Holder struct {
	Plain     Status
	Annotated Status `dict:"taskStatus"`
	Recursed  *Inner
	Flat      *Inner `dict:"suffix=ab,translator=happy"`
}

func TestDirectiveOnBusinessTypeDoesNotRecurse(t *testing.T) {
	w := newWalker(t, multiDict)
	h := &Holder{Plain: "1", Annotated: "2", Recursed: &Inner{Code: "3"}, Flat: &Inner{Code: "3"}}

	got := snapshotOf(t, w, h)

	if plain, _ := got.Get("Plain"); plain == nil {
		t.Fatalf("untagged business field must recurse")
	} else if _, ok := plain.(*walker.Result); !ok {
		t.Fatalf("untagged business field must recurse, got %T", plain)
	}
	if got.Text("Annotated") != "进行中" {
		t.Fatalf("Annotated = %v, want 进行中", got.Map()["Annotated"])
	}
	if got.Nested("Recursed").Text("Code") != "已完成" {
		t.Fatalf("Recursed = %v", got.Map()["Recursed"])
	}
	if got.Text("Flat") != "abab" {
		t.Fatalf("Flat = %v, want abab", got.Map()["Flat"])
	}
}

type Node struct {
	Name string `dict:"taskStatus"`
	Next *Node
}

func TestCycle_Terminates(t *testing.T) {
	w := newWalker(t, multiDict)
	n := &Node{Name: "1"}
	n.Next = n

	got := snapshotOf(t, w, n)
	if got.Text("Name") != "未开始" {
		t.Fatalf("Name = %q", got.Text("Name"))
	}
	if _, ok := got.Get("Next"); ok {
		t.Fatalf("cyclic reference must be absent")
	}

	if err := w.Fill(n); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	// Translated exactly once.
	if n.Name != "未开始" {
		t.Fatalf("Name after Fill = %q", n.Name)
	}
}

func TestSharedObjectFilledOnce(t *testing.T) {
	w := newWalker(t, multiDict)
	shared := &Inner{Code: "1"}
	list := []*Inner{shared, shared}

	if err := w.Fill(list); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if shared.Code != "未开始" {
		t.Fatalf("Code = %q, want 未开始", shared.Code)
	}

	// A snapshot may visit the same object twice; only cycles are cut.
	again := &Inner{Code: "2"}
	seq, err := w.Snapshot([]*Inner{again, again})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	items := seq.([]any)
	if items[0].(*walker.Result).Text("Code") != "进行中" || items[1].(*walker.Result).Text("Code") != "进行中" {
		t.Fatalf("shared snapshot = %v", items)
	}
}

func chain(n int) *Node {
	var head *Node
	for i := 0; i < n; i++ {
		head = &Node{Name: "1", Next: head}
	}
	return head
}

func TestMaxDepth(t *testing.T) {
	w := newWalker(t, multiDict, config.WithMaxDepth(2))

	got := snapshotOf(t, w, chain(5))
	deepest := got.Nested("Next").Nested("Next").Nested("Next")
	if deepest == nil || deepest.Len() != 0 {
		t.Fatalf("object past MaxDepth must be an empty result, got %v", got.Map())
	}

	err := w.Fill(chain(5))
	if !errors.Is(err, walker.ErrMaxDepth) {
		t.Fatalf("Fill: want ErrMaxDepth, got %v", err)
	}
}

type Loop []any

type LoopHolder struct {
	Items Loop
}

func TestMaxDepth_SelfReferencingSequence(t *testing.T) {
	w := newWalker(t, multiDict, config.WithMaxDepth(4))
	l := Loop{nil}
	l[0] = l

	got := snapshotOf(t, w, &LoopHolder{Items: l})
	v, ok := got.Get("Items")
	if !ok {
		t.Fatalf("Items missing from %v", got.Map())
	}
	levels := 0
	for {
		seq, isSeq := v.([]any)
		if !isSeq {
			break
		}
		if levels++; levels > 10 || len(seq) != 1 {
			t.Fatalf("sequence not cut at MaxDepth: level %d, %v", levels, seq)
		}
		v = seq[0]
	}
	if r, isResult := v.(*walker.Result); !isResult || r.Len() != 0 {
		t.Fatalf("value past MaxDepth = %#v, want empty result", v)
	}

	if err := w.Fill(&LoopHolder{Items: l}); !errors.Is(err, walker.ErrMaxDepth) {
		t.Fatalf("Fill: want ErrMaxDepth, got %v", err)
	}
}

type BadTag struct {
	Name string `dict:"colour=red"`
}

func TestInvalidDirective(t *testing.T) {
	w := newWalker(t, multiDict)

	got := snapshotOf(t, w, &BadTag{Name: "1"})
	if got.Len() != 0 {
		t.Fatalf("invalid directive must degrade to empty result, got %v", got.Map())
	}

	err := w.Fill(&BadTag{Name: "1"})
	if !errors.Is(err, walker.ErrInvalidDirective) {
		t.Fatalf("Fill: want ErrInvalidDirective, got %v", err)
	}
	var fe *walker.FieldError
	if !errors.As(err, &fe) || fe.Field != "Name" {
		t.Fatalf("Fill: want *FieldError for Name, got %#v", err)
	}
}

type UnknownTranslator struct {
	Name string `dict:"translator=nope"`
}

func TestUnknownTranslatorIsReturned(t *testing.T) {
	w := newWalker(t, multiDict)

	_, err := w.Snapshot(&UnknownTranslator{Name: "1"})
	if !errors.Is(err, registry.ErrInstantiation) {
		t.Fatalf("Snapshot: want ErrInstantiation, got %v", err)
	}

	err = w.Fill(&UnknownTranslator{Name: "1"})
	var ie *registry.InstantiationError
	if !errors.As(err, &ie) || ie.ID != "nope" {
		t.Fatalf("Fill: want *InstantiationError, got %v", err)
	}
}

type Exploding struct {
	Name  string `dict:"translator=boom"`
	Inner *Inner
}

type Parent struct {
	Status string `dict:"taskStatus"`
	Child  *Exploding
}

func TestSnapshot_PanicDegradesPerObject(t *testing.T) {
	w := newWalker(t, multiDict)

	got := snapshotOf(t, w, &Parent{Status: "1", Child: &Exploding{Name: "x"}})
	if got.Text("Status") != "未开始" {
		t.Fatalf("parent lost its own translation: %v", got.Map())
	}
	if child := got.Nested("Child"); child == nil || child.Len() != 0 {
		t.Fatalf("failing child must be an empty result, got %v", got.Map()["Child"])
	}

	if err := w.Fill(&Parent{Status: "1", Child: &Exploding{Name: "x"}}); err == nil {
		t.Fatalf("Fill must fail loudly on a panicking translator")
	}
}

func TestFill_NotAddressable(t *testing.T) {
	w := newWalker(t, multiDict)

	err := w.Fill(Inner{Code: "1"})
	if !errors.Is(err, walker.ErrNotAddressable) {
		t.Fatalf("want ErrNotAddressable, got %v", err)
	}

	// Slice elements are addressable.
	items := []Inner{{Code: "1"}}
	if err := w.Fill(items); err != nil {
		t.Fatalf("Fill(slice): %v", err)
	}
	if items[0].Code != "未开始" {
		t.Fatalf("Code = %q", items[0].Code)
	}
}

func TestNotTranslatable(t *testing.T) {
	w := newWalker(t, multiDict)

	for _, v := range []any{nil, "1", 42, (*Inner)(nil), map[string]string{"a": "b"}} {
		got, err := w.Snapshot(v)
		if err != nil || got != nil {
			t.Errorf("Snapshot(%#v) = (%v,%v), want (nil,nil)", v, got, err)
		}
		if err := w.Fill(v); err != nil {
			t.Errorf("Fill(%#v) = %v, want nil", v, err)
		}
	}
}

type Tagged struct {
	apis.Marker
	Codes  []string `dict:"taskStatus"`
	Status string   `dict:"taskStatus"`
}

func TestCollectionFieldWithDirective(t *testing.T) {
	// No business packages: Tagged is translatable through apis.Marker alone.
	w := build(t, multiDict, config.DefaultConfig())

	got := snapshotOf(t, w, &Tagged{Codes: []string{"1", "9"}, Status: "3"})
	want := map[string]any{
		"Codes":  []any{"未开始", nil},
		"Status": "已完成",
	}
	if diff := cmp.Diff(want, got.Map()); diff != "" {
		t.Fatalf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_BareCollection(t *testing.T) {
	w := newWalker(t, multiDict)

	got, err := w.Snapshot([]*Inner{{Code: "1"}, nil, {Code: "2"}})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	seq, ok := got.([]any)
	if !ok || len(seq) != 3 {
		t.Fatalf("Snapshot = %#v, want 3-element sequence", got)
	}
	if seq[0].(*walker.Result).Text("Code") != "未开始" || seq[1] != nil || seq[2].(*walker.Result).Text("Code") != "进行中" {
		t.Fatalf("unexpected sequence: %v", seq)
	}
}
