package main

import (
	"sort"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// listItem is one selectable entry: a display label plus the id handed
// back to the graph (bib number or judge id).
type listItem struct {
	label string
	id    int
}

// doubleListStore is the widget-free state of a dual-list selector: items
// sit either on the left (available) or right (shown) side, kept sorted by
// label. Split out from the widget so it stays testable headless.
type doubleListStore struct {
	left  []listItem
	right []listItem
}

func (s *doubleListStore) add(label string, id int, toRight bool) {
	side := &s.left
	if toRight {
		side = &s.right
	}
	*side = append(*side, listItem{label: label, id: id})
	sortItems(*side)
}

func (s *doubleListStore) clear() {
	s.left, s.right = nil, nil
}

// move transfers the item at index from one side to the other, keeping the
// destination sorted. Reports whether anything moved.
func (s *doubleListStore) move(fromLeft bool, index int) bool {
	src, dst := &s.left, &s.right
	if !fromLeft {
		src, dst = &s.right, &s.left
	}
	if index < 0 || index >= len(*src) {
		return false
	}
	item := (*src)[index]
	*src = append((*src)[:index], (*src)[index+1:]...)
	*dst = append(*dst, item)
	sortItems(*dst)
	return true
}

// moveAll empties one side into the other. Reports whether anything moved.
func (s *doubleListStore) moveAll(fromLeft bool) bool {
	src, dst := &s.left, &s.right
	if !fromLeft {
		src, dst = &s.right, &s.left
	}
	if len(*src) == 0 {
		return false
	}
	*dst = append(*dst, *src...)
	*src = nil
	sortItems(*dst)
	return true
}

// rightIDs returns the ids currently on the shown side.
func (s *doubleListStore) rightIDs() []int {
	ids := make([]int, len(s.right))
	for i, item := range s.right {
		ids[i] = item.id
	}
	return ids
}

func sortItems(items []listItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].label != items[j].label {
			return items[i].label < items[j].label
		}
		return items[i].id < items[j].id
	})
}

// listRow is one rendered list entry. Double-tapping it moves the entry
// straight to the other side, the same shortcut the move buttons cover.
type listRow struct {
	widget.Label

	onDoubleTap func()
}

func newListRow() *listRow {
	r := &listRow{}
	r.ExtendBaseWidget(r)
	return r
}

func (r *listRow) DoubleTapped(*fyne.PointEvent) {
	if r.onDoubleTap != nil {
		r.onDoubleTap()
	}
}

var _ fyne.DoubleTappable = (*listRow)(nil)

// doubleList is the dual-list selection widget: available entries on the
// left, shown entries on the right, with move buttons in between. OnChanged
// fires after every move with the shown ids.
type doubleList struct {
	store doubleListStore

	leftList  *widget.List
	rightList *widget.List
	root      fyne.CanvasObject

	leftSel  int
	rightSel int

	// OnChanged receives the ids on the shown side after every move.
	OnChanged func([]int)
}

func newDoubleList() *doubleList {
	dl := &doubleList{leftSel: -1, rightSel: -1}

	dl.leftList = widget.NewList(
		func() int { return len(dl.store.left) },
		func() fyne.CanvasObject { return newListRow() },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*listRow)
			row.SetText(dl.store.left[i].label)
			row.onDoubleTap = func() { dl.moveIndex(true, i) }
		},
	)
	dl.rightList = widget.NewList(
		func() int { return len(dl.store.right) },
		func() fyne.CanvasObject { return newListRow() },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*listRow)
			row.SetText(dl.store.right[i].label)
			row.onDoubleTap = func() { dl.moveIndex(false, i) }
		},
	)
	dl.leftList.OnSelected = func(i widget.ListItemID) { dl.leftSel = i }
	dl.rightList.OnSelected = func(i widget.ListItemID) { dl.rightSel = i }

	moveRight := widget.NewButton(">>", func() { dl.moveSelected(true) })
	moveLeft := widget.NewButton("<<", func() { dl.moveSelected(false) })
	moveAllRight := widget.NewButton("All >>", func() { dl.moveEverything(true) })
	moveAllLeft := widget.NewButton("<< All", func() { dl.moveEverything(false) })
	buttons := container.NewVBox(moveRight, moveLeft, moveAllRight, moveAllLeft)

	dl.root = container.NewGridWithColumns(3, dl.leftList, container.NewCenter(buttons), dl.rightList)
	return dl
}

// Container returns the widget tree to place in a layout.
func (dl *doubleList) Container() fyne.CanvasObject { return dl.root }

// SetItems replaces all entries, every id starting on the left side.
func (dl *doubleList) SetItems(labels []string, ids []int) {
	dl.store.clear()
	for i, label := range labels {
		dl.store.add(label, ids[i], false)
	}
	dl.leftSel, dl.rightSel = -1, -1
	dl.refresh()
}

// SelectedIDs returns the ids on the shown side.
func (dl *doubleList) SelectedIDs() []int { return dl.store.rightIDs() }

func (dl *doubleList) moveSelected(toRight bool) {
	sel := dl.leftSel
	if !toRight {
		sel = dl.rightSel
	}
	dl.moveIndex(toRight, sel)
}

// moveIndex moves one entry by index, shared by the buttons and the
// double-tap shortcut.
func (dl *doubleList) moveIndex(fromLeft bool, index int) {
	if !dl.store.move(fromLeft, index) {
		return
	}
	dl.leftSel, dl.rightSel = -1, -1
	dl.leftList.UnselectAll()
	dl.rightList.UnselectAll()
	dl.refresh()
	dl.notify()
}

func (dl *doubleList) moveEverything(toRight bool) {
	if !dl.store.moveAll(toRight) {
		return
	}
	dl.leftSel, dl.rightSel = -1, -1
	dl.leftList.UnselectAll()
	dl.rightList.UnselectAll()
	dl.refresh()
	dl.notify()
}

func (dl *doubleList) refresh() {
	dl.leftList.Refresh()
	dl.rightList.Refresh()
}

func (dl *doubleList) notify() {
	if dl.OnChanged != nil {
		dl.OnChanged(dl.store.rightIDs())
	}
}
