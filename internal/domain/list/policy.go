package list

// SaveAction is the outcome of a save toggle.
type SaveAction int

const (
	SaveAdd SaveAction = iota + 1
	SaveRemove
)

// CanRead: public lists are open to anyone; private ones only to the creator
// and to users who saved the list. An empty viewer is anonymous.
func (l *List) CanRead(viewerID string) bool {
	if l.Visibility == VisibilityPublic {
		return true
	}
	if viewerID == "" {
		return false
	}
	return l.CreatorID == viewerID || l.IsSavedBy(viewerID)
}

func (l *List) CheckRead(viewerID string) error {
	if !l.CanRead(viewerID) {
		return ErrForbidden
	}
	return nil
}

// CheckMutate allows only the creator to change a list.
func (l *List) CheckMutate(viewerID string) error {
	if viewerID == "" || l.CreatorID != viewerID {
		return ErrForbidden
	}
	return nil
}

// CheckDelete rejects favorites for every caller, then applies ownership.
func (l *List) CheckDelete(viewerID string) error {
	if l.IsFavorites {
		return ErrFavoritesUndeletable
	}
	return l.CheckMutate(viewerID)
}

// ToggleSave decides what a save toggle by viewerID does. Removing a save is
// always allowed; adding one to a private list is reserved for the creator.
func (l *List) ToggleSave(viewerID string) (SaveAction, error) {
	if viewerID == "" {
		return 0, ErrForbidden
	}
	if l.IsSavedBy(viewerID) {
		return SaveRemove, nil
	}
	if l.Visibility == VisibilityPrivate && l.CreatorID != viewerID {
		return 0, ErrPrivateSave
	}
	return SaveAdd, nil
}

// Fork copies the list for viewerID. The copy is private, owned by the viewer,
// and shares nothing with the source.
func (l *List) Fork(viewerID, title string) (*List, error) {
	if err := l.CheckRead(viewerID); err != nil {
		return nil, err
	}
	if viewerID == "" {
		return nil, ErrForbidden
	}
	if title == "" {
		title = l.Title + " (fork)"
	}
	items := make([]Item, len(l.Questions))
	copy(items, l.Questions)
	return New(viewerID, title, l.Description, VisibilityPrivate, items)
}
