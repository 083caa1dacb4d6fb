package durak

// Code is one of the closed set of rule-violation / protocol-error codes
// from spec.md §6. It never carries a player's private hand or deck order.
type Code string

const (
	CodeNotActive                 Code = "NOT_ACTIVE"
	CodeDefenderCannotAttack       Code = "DEFENDER_CANNOT_ATTACK"
	CodeDefenderCannotPass         Code = "DEFENDER_CANNOT_PASS"
	CodeOnlyDefenderCanDefend      Code = "ONLY_DEFENDER_CAN_DEFEND"
	CodeOnlyDefenderCanTake        Code = "ONLY_DEFENDER_CAN_TAKE"
	CodeOnlyDefenderCanBeat        Code = "ONLY_DEFENDER_CAN_BEAT"
	CodeOnlyDefenderCanTransfer    Code = "ONLY_DEFENDER_CAN_TRANSFER"
	CodeYouPassed                  Code = "YOU_PASSED"
	CodeCardNotInHand              Code = "CARD_NOT_IN_HAND"
	CodeRoundLimit                 Code = "ROUND_LIMIT"
	CodeOnlyMainAttackerStarts      Code = "ONLY_MAIN_ATTACKER_STARTS"
	CodeBadCard                    Code = "BAD_CARD"
	CodeRankNotOnTable              Code = "RANK_NOT_ON_TABLE"
	CodeDefenderMustRespond         Code = "DEFENDER_MUST_RESPOND"
	CodeBadAttackIndex              Code = "BAD_ATTACK_INDEX"
	CodeAlreadyDefended             Code = "ALREADY_DEFENDED"
	CodeDoesNotBeat                 Code = "DOES_NOT_BEAT"
	CodeModeNotPerevodnoy           Code = "MODE_NOT_PEREVODNOY"
	CodeTakeAlreadyDeclared         Code = "TAKE_ALREADY_DECLARED"
	CodeNothingToTransfer           Code = "NOTHING_TO_TRANSFER"
	CodeCannotTransferAfterDefend   Code = "CANNOT_TRANSFER_AFTER_DEFEND"
	CodeRankMustMatchAttack         Code = "RANK_MUST_MATCH_ATTACK"
	CodeNothingOnTable              Code = "NOTHING_ON_TABLE"
	CodeNotFullyDefended            Code = "NOT_FULLY_DEFENDED"
	CodeAttackersNotPassed          Code = "ATTACKERS_NOT_PASSED"
	CodeGameNotPlaying              Code = "GAME_NOT_PLAYING"
	CodeGameFinished                Code = "GAME_FINISHED"
)

// RuleError is a well-formed but illegal game event (spec.md §7's
// RulesViolation kind). It never mutates state and carries only a stable
// code plus an optional free-form detail.
type RuleError struct {
	Code   Code
	Detail string
}

func (e *RuleError) Error() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Detail
}

func ruleErr(code Code, detail string) *RuleError {
	return &RuleError{Code: code, Detail: detail}
}
