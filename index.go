package linguist

// Index provides constant time lookups of contexts by name and of messages by
// key. It refers to the contexts it was built from, which must not be modified
// afterwards.
type Index struct {
	contexts map[string]*Context
	messages map[Key]*Message
}

// NewIndex indexes contexts. When several messages share a key, a later one
// replaces an earlier one only if its status ranks at least as high, with
// Finished above Unfinished above Obsolete. An obsolete record therefore never
// hides a finished one, whatever the document order, and among records of the
// same status the last one wins.
func NewIndex(contexts []Context) *Index {
	n := 0
	for i := range contexts {
		n += len(contexts[i].Messages)
	}
	ix := &Index{
		contexts: make(map[string]*Context, len(contexts)),
		messages: make(map[Key]*Message, n),
	}
	for i := range contexts {
		ctx := &contexts[i]
		if _, ok := ix.contexts[ctx.Name]; !ok {
			ix.contexts[ctx.Name] = ctx
		}
		for j := range ctx.Messages {
			msg := &ctx.Messages[j]
			key := Key{Context: ctx.Name, Source: msg.Source, Comment: msg.Comment}
			if prev, ok := ix.messages[key]; ok && msg.Status.rank() < prev.Status.rank() {
				continue
			}
			ix.messages[key] = msg
		}
	}
	return ix
}

func (ix *Index) lookup(key Key) *Message {
	if ix == nil {
		return nil
	}
	return ix.messages[key]
}

// Lookup returns the message that wins for key.
func (ix *Index) Lookup(key Key) (Message, bool) {
	msg := ix.lookup(key)
	if msg == nil {
		return Message{}, false
	}
	return msg.clone(), true
}

// Context returns a copy of the named context.
func (ix *Index) Context(name string) (Context, bool) {
	if ix == nil {
		return Context{}, false
	}
	ctx, ok := ix.contexts[name]
	if !ok {
		return Context{}, false
	}
	return ctx.clone(), true
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.messages)
}
