// Package list implements an intrusive doubly linked list. It backs both
// the LRU replacer's victim ordering and the lock manager's per-RID FIFO
// request queues: both want O(1) removal of an arbitrary element plus
// push-to-tail, and both are happy to let the element itself carry a
// pointer back into the list it lives in.
package list

import (
	"errors"
	"fmt"
	"io"
	"strings"

	repl "github.com/basaltdb/engine/pkg/repl"
)

// List struct.
type List struct {
	head *Link
	tail *Link
}

// Create a new list.
func NewList() *List {
	return &List{head: nil, tail: nil}
}

// Get a pointer to the head of the list.
func (list *List) PeekHead() *Link {
	return list.head
}

// Get a pointer to the tail of the list.
func (list *List) PeekTail() *Link {
	return list.tail
}

// Add an element to the start of the list. Returns the added link.
func (list *List) PushHead(value any) *Link {
	newLink := &Link{
		list:  list,
		next:  list.head,
		value: value,
	}
	if list.tail == nil {
		list.tail = newLink
	}
	if list.head != nil {
		list.head.prev = newLink
	}
	list.head = newLink
	return newLink
}

// Add an element to the end of the list. Returns the added link.
func (list *List) PushTail(value any) *Link {
	newLink := &Link{
		list:  list,
		prev:  list.tail,
		value: value,
	}
	if list.head == nil {
		list.head = newLink
	}
	if list.tail != nil {
		list.tail.next = newLink
	}
	list.tail = newLink
	return newLink
}

// Find an element in a list given a boolean function, f, that evaluates to true on the desired element.
func (list *List) Find(f func(*Link) bool) *Link {
	for link := list.head; link != nil; {
		if f(link) {
			return link
		}
		if link == list.tail { // Break on last entry
			break
		}
		link = link.next
	}
	return nil
}

// Apply a function to every element in the list. f should alter Link in place.
func (list *List) Map(f func(*Link)) {
	for link := list.head; link != nil; {
		f(link)
		if link == list.tail { // Break on last entry
			break
		}
		link = link.next
	}
}

// Link struct.
type Link struct {
	list  *List
	prev  *Link
	next  *Link
	value any
}

// Get the list that this link is a part of.
func (link *Link) GetList() *List {
	return link.list
}

// Get the link's value.
func (link *Link) GetKey() any {
	return link.value
}

// Set the link's value.
func (link *Link) SetKey(value any) {
	link.value = value
}

// Get the link's prev.
func (link *Link) GetPrev() *Link {
	return link.prev
}

// Get the link's next.
func (link *Link) GetNext() *Link {
	return link.next
}

// Remove this link from its list.
func (link *Link) PopSelf() {
	list := link.list
	newPrev := link.prev
	newNext := link.next
	if newPrev != nil {
		newPrev.next = newNext
	}
	if newNext != nil {
		newNext.prev = newPrev
	}
	link.prev = nil
	link.next = nil
	if list.head == link {
		list.head = newNext
	}
	if list.tail == link {
		list.tail = newPrev
	}
}

// List REPL.
func ListRepl(list *List) *repl.REPL {
	r := repl.NewRepl()
	r.AddCommand("list_print", func(_ string, replConfig *repl.REPLConfig) error {
		list.Map(func(l *Link) {
			io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%v, ", l.GetKey()))
		})
		return nil
	}, "Prints out the elements of the list. usage: list_print")
	r.AddCommand("list_push_head", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: list_push_head <elt>")
		}
		list.PushHead(fields[1])
		return nil
	}, "Add an element to the head of the list. usage: list_push_head <elt>")
	r.AddCommand("list_push_tail", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: list_push_tail <elt>")
		}
		list.PushTail(fields[1])
		return nil
	}, "Add an element to the tail of the list. usage: list_push_tail <elt>")
	r.AddCommand("list_remove", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: list_remove <elt>")
		}
		toRemove := list.Find(func(l *Link) bool { return l.GetKey() == fields[1] })
		if toRemove == nil {
			return errors.New("not found")
		}
		toRemove.PopSelf()
		io.WriteString(replConfig.GetWriter(), "removed\n")
		return nil
	}, "Remove an element with the given value from the list. usage: list_remove <elt>")
	r.AddCommand("list_contains", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: list_contains <elt>")
		}
		found := list.Find(func(l *Link) bool { return l.GetKey() == fields[1] })
		if found != nil {
			io.WriteString(replConfig.GetWriter(), "found!\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "not found\n")
		}
		return nil
	}, "Checks if an element exists in the list. usage: list_contains <elt>")
	return r
}
