// Package token defines lexical token kinds and trivia for Solidity source.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly.
//   - Comments and whitespace never appear in the token stream; they are
//     attached to the following token as Leading trivia.
//   - Elementary type names (uint256, address, bytes32, ...) are identifiers;
//     IsElementaryType recognises them.
package token
