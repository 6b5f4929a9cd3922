package discussion

// Reaction is a user's vote on a discussion or a reply. A user holds at most
// one reaction per target, so like and dislike exclude each other.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func (r Reaction) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// Toggle returns the reaction a user ends up with after requesting next while
// holding current. Repeating a reaction clears it; the other one replaces it.
func Toggle(current, next Reaction) (Reaction, error) {
	if !next.Valid() {
		return ReactionNone, ErrInvalidReaction
	}
	if current == next {
		return ReactionNone, nil
	}
	return next, nil
}

// ReactionOf reads a user's current reaction from like/dislike sets.
func ReactionOf(likes, dislikes []string, userID string) Reaction {
	for _, u := range likes {
		if u == userID {
			return ReactionLike
		}
	}
	for _, u := range dislikes {
		if u == userID {
			return ReactionDislike
		}
	}
	return ReactionNone
}
