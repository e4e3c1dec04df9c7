package mojang

import "github.com/aabss/mojang-go/routes"

// Environment is the base URL of a realms deployment.
type Environment string

const (
	EnvironmentProduction Environment = routes.RealmsProduction
	EnvironmentStage      Environment = routes.RealmsStage
	EnvironmentLocal      Environment = routes.RealmsLocal
)

func (e Environment) String() string { return string(e) }
