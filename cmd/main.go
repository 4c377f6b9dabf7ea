package main

import (
	"github.com/aws/jsii-runtime-go"
	"github.com/jharring9/ByteBracket-CDK/internal/commons"
	"github.com/jharring9/ByteBracket-CDK/pkg/account"
	"github.com/jharring9/ByteBracket-CDK/pkg/bootstrap"
	"go.uber.org/fx"
)

func initStacks() commons.Account {
	acct, err := bootstrap.MainAccount()
	if err != nil {
		panic(err)
	}

	app := fx.New(
		bootstrap.Logger(),
		fx.Supply(acct),
		account.Module(acct.Config),
	)
	if err := app.Err(); err != nil {
		panic(err)
	}

	return acct
}

func main() {
	defer jsii.Close()

	account := initStacks()

	account.App.Synth(nil)
}
