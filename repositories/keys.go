package repositories

import (
	"fmt"
	"pawmatch/domain"
	"time"
)

// Key layout. Timestamps are zero padded to 19 digits so lexicographic order is chronological.
//
//	pet:id:{pet}                           Pet
//	pet:owner:{user}:{pet}                 index
//	like:{from}:{to}                       Like
//	pass:{from}:{to}                       Pass
//	swipe:{from}:{to}                      index of both, for the discovery feed
//	match:id:{match}                       Match
//	match:pair:{petA}:{petB}               match id, petA < petB
//	match:user:{user}:{nanos}:{match}      index
//	msg:{match}:{nanos}:{message}          Message
//	user:email:{email}                     User
//	user:id:{user}                         email
func petKey(id domain.PetID) []byte { return []byte(fmt.Sprintf("pet:id:%s", id)) }

func petOwnerPrefix(owner domain.UserID) []byte {
	return []byte(fmt.Sprintf("pet:owner:%s:", owner))
}

func petOwnerKey(owner domain.UserID, id domain.PetID) []byte {
	return append(petOwnerPrefix(owner), id...)
}

func likeKey(from, to domain.PetID) []byte { return []byte(fmt.Sprintf("like:%s:%s", from, to)) }

func passKey(from, to domain.PetID) []byte { return []byte(fmt.Sprintf("pass:%s:%s", from, to)) }

func swipePrefix(from domain.PetID) []byte { return []byte(fmt.Sprintf("swipe:%s:", from)) }

func swipeKey(from, to domain.PetID) []byte { return append(swipePrefix(from), to...) }

func matchKey(id domain.MatchID) []byte { return []byte(fmt.Sprintf("match:id:%s", id)) }

func matchPairKey(a, b domain.PetID) []byte {
	a, b = domain.PairKey(a, b)
	return []byte(fmt.Sprintf("match:pair:%s:%s", a, b))
}

func matchUserPrefix(user domain.UserID) []byte {
	return []byte(fmt.Sprintf("match:user:%s:", user))
}

func matchUserKey(user domain.UserID, at time.Time, id domain.MatchID) []byte {
	return append(matchUserPrefix(user), fmt.Sprintf("%019d:%s", at.UnixNano(), id)...)
}

func messagePrefix(matchID domain.MatchID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", matchID))
}

func messageSuffix(msg domain.Message) string {
	return fmt.Sprintf("%019d:%s", msg.CreatedAt.UnixNano(), msg.ID)
}

func userEmailKey(email string) []byte { return []byte("user:email:" + email) }

func userIDKey(id domain.UserID) []byte { return []byte(fmt.Sprintf("user:id:%s", id)) }
