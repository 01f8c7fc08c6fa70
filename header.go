package gfxtrace

import "fmt"

// headerEmitter writes functionhooks.gen.h. Emission order follows
// spec section 4.4 exactly; each numbered method below corresponds to
// one numbered step there.
type headerEmitter struct {
	cat     *Catalog
	plan    *genPlan
	cmdLine string
	out     *codeWriter
}

func newHeaderEmitter(cat *Catalog, plan *genPlan, cmdLine string) *headerEmitter {
	return &headerEmitter{cat: cat, plan: plan, cmdLine: cmdLine, out: newCodeWriter("  ")}
}

func (g *headerEmitter) output() string { return g.out.String() }

func (g *headerEmitter) Emit() {
	g.writeBanner()
	g.writeIncludes()
	g.writeGlobalExterns()
	g.writeRealPointerExterns()
	g.writeOrchestrationDecls()
	g.writeHookPrototypes()
	g.writeSerializeTypesEnum()
	g.writePacketStruct()
	g.writeManualPlayPrototypes()
	g.writePointerLengthHelpers()
	g.writeStateClassDeclarations()
}

// 1. Banner.
func (g *headerEmitter) writeBanner() {
	g.out.writel("// Generated by gfxtracegen. DO NOT EDIT.")
	g.out.writel("// Command line: " + g.cmdLine)
	g.out.blank()
}

// 2. #pragma once and the fixed include set.
func (g *headerEmitter) writeIncludes() {
	g.out.writel("#pragma once")
	g.out.blank()
	g.out.writel(`#include "FunctionHooksSupport.h"`)
	g.out.writel("#include <map>")
	g.out.blank()
}

func (g *headerEmitter) globalStateClassName() string {
	if len(g.cat.StateClasses) > 0 {
		return g.cat.StateClasses[0].Name
	}
	return "ContextState"
}

// 3. gIsRecording / gContextState externs.
func (g *headerEmitter) writeGlobalExterns() {
	g.out.writel("extern bool gIsRecording;")
	g.out.writel(fmt.Sprintf("extern %s* gContextState;", g.globalStateClassName()))
	g.out.blank()
}

// 4. Real-pointer externs for entries needing manual detour or public real access.
func (g *headerEmitter) writeRealPointerExterns() {
	for _, e := range g.plan.All {
		if e.NeedsManualDetour || e.NeedsPublicReal {
			g.out.writel(fmt.Sprintf("extern %s (%s* %s)(%s);", e.returnType(), callingConvention, e.RealPointerName(), e.ArgsDeclaration()))
		}
	}
	g.out.blank()
}

// 5. Orchestration function declarations.
func (g *headerEmitter) writeOrchestrationDecls() {
	g.out.writel("void Generated_ResolveDynamics();")
	g.out.writel("void Generated_AttachStaticHooks();")
	g.out.writel("void Generated_AttachDynamicHooks();")
	g.out.writel("void Generated_DetachAllHooks();")
	g.out.writel("size_t GLenumToParameterCount(GLenum pname);")
	g.out.blank()
}

// 6. Hook prototypes.
func (g *headerEmitter) writeHookPrototypes() {
	for _, e := range g.plan.All {
		g.out.writel(fmt.Sprintf("%s %s %s(%s);", e.returnType(), callingConvention, e.DetouredName(), e.ArgsDeclaration()))
	}
	g.out.blank()
}

// 7. ESerializeTypes enum.
func (g *headerEmitter) writeSerializeTypesEnum() {
	g.out.writel("enum ESerializeTypes {")
	g.out.indent()
	for _, e := range g.plan.PacketEntries {
		g.out.writeil(e.DataName() + ",")
	}
	g.out.writeil("EST_Message,")
	g.out.writeil("EST_Sentinel,")
	g.out.writeil("EST_ForceSize = 0x7FFFFFFF,")
	g.out.unindent()
	g.out.writel("};")
	g.out.blank()
}

// 8. Packet struct: tagged union plus Read/Write/Play and per-entry factories.
func (g *headerEmitter) writePacketStruct() {
	g.out.writel("struct SSerializeDataPacket {")
	g.out.indent()
	g.out.writeil("ESerializeTypes mDataType;")
	g.out.writeil("int mPacketId;")
	g.out.blank()
	g.out.writeil("union {")
	g.out.indent()
	for _, e := range g.plan.PacketEntries {
		g.out.writeil("struct {")
		g.out.indent()
		for _, f := range e.ArgsAsDataStruct() {
			g.out.writeil(f.CType + " " + f.Name + ";")
		}
		g.out.unindent()
		g.out.writeil(fmt.Sprintf("} %s;", e.DataStructMemberName()))
	}
	g.out.writeil("struct {")
	g.out.indent()
	g.out.writeil("size_t mLength;")
	g.out.writeil("const char* mText;")
	g.out.unindent()
	g.out.writeil("} mData_Message;")
	g.out.unindent()
	g.out.writeil("};")
	g.out.blank()

	g.out.writeil("void Read(FileLike* stream);")
	g.out.writeil("void Write(FileLike* stream) const;")
	g.out.writeil("void Play() const;")
	g.out.blank()
	for _, e := range g.plan.PacketEntries {
		g.out.writeil(fmt.Sprintf("static SSerializeDataPacket %s(%s);", e.Name, e.ArgsDeclaration()))
	}
	g.out.unindent()
	g.out.writel("};")
	g.out.blank()
}

// 9. ManualPlay_<name> prototypes.
func (g *headerEmitter) writeManualPlayPrototypes() {
	any := false
	for _, e := range g.plan.All {
		if e.NeedsManualReplay {
			g.out.writel(fmt.Sprintf("void ManualPlay_%s(const SSerializeDataPacket& packet);", e.Name))
			any = true
		}
	}
	if any {
		g.out.blank()
	}
}

// 10. Pointer-length helpers: inline when inference succeeded,
// forward declaration (taking the state-context pointer) otherwise.
func (g *headerEmitter) writePointerLengthHelpers() {
	for _, e := range g.plan.All {
		plans, ok := g.plan.PointerArgs[e.Name]
		if !ok {
			continue
		}
		for _, pp := range plans {
			arg := e.Args[pp.ArgIndex]
			if pp.Inferred {
				g.out.writeil(fmt.Sprintf("inline size_t %s(%s) {", pp.HelperName, e.ArgsDeclaration()))
				g.out.indent()
				g.out.writeil(fmt.Sprintf("if (!%s) return 0;", arg.Name))
				g.out.writeil(fmt.Sprintf("return %s;", pp.Expr))
				g.out.unindent()
				g.out.writeil("}")
			} else {
				g.out.writel(fmt.Sprintf("size_t %s(const %s*, %s);", pp.HelperName, g.globalStateClassName(), e.ArgsDeclaration()))
			}
		}
	}
	g.out.blank()
}

// 11. State class declarations.
func (g *headerEmitter) writeStateClassDeclarations() {
	for _, sc := range g.cat.StateClasses {
		g.writeStateClassDeclaration(sc)
	}
}

func (g *headerEmitter) writeStateClassDeclaration(sc *StateClass) {
	g.out.writel(fmt.Sprintf("class %s {", sc.Name))
	g.out.writel(" public:")
	g.out.indent()
	g.out.writeil(fmt.Sprintf("%s();", sc.Name))
	g.out.writeil(fmt.Sprintf("~%s();", sc.Name))
	g.out.blank()
	g.out.writeil("void Write(FileLike* stream) const;")
	g.out.writeil("void Read(FileLike* stream);")
	g.out.writeil("void OnCaptureStart();")
	g.out.writeil("void Restore() const;")
	g.out.writeil("void SetOwnerThreadId(DWORD threadId);")
	g.out.writeil("bool CheckOwnerThreadId() const;")
	g.out.blank()
	for _, e := range sc.Members {
		if e.IsAliased() {
			continue
		}
		g.out.writeil(fmt.Sprintf("%s %s(%s);", e.StateMemberReturnType(), e.Name, e.ArgsDeclarationAsState()))
	}
	g.out.blank()
	for _, f := range sc.Data {
		g.out.writeil(fmt.Sprintf("inline const %s& %s const { return %s; }", f.CType, f.AccessorName(), f.Name))
	}
	g.out.unindent()
	g.out.blank()
	g.out.writel(" private:")
	g.out.indent()
	if sc.HasManualData() {
		g.out.writeil("void ManualConstruct();")
		g.out.writeil("void ManualDestruct();")
	}
	g.out.writeil("void ManualWrite(FileLike* stream) const;")
	g.out.writeil("void ManualRead(FileLike* stream);")
	g.out.writeil("void ManualRestore() const;")
	g.out.writeil("void ManualPreRestore() const;")
	g.out.blank()
	for _, e := range sc.AutomaticMembers() {
		g.out.writeil("struct {")
		g.out.indent()
		for _, f := range e.ArgsAsDataStruct() {
			g.out.writeil(f.CType + " " + f.Name + ";")
		}
		g.out.unindent()
		g.out.writeil(fmt.Sprintf("} %s;", e.DataStructMemberName()))
		g.out.writeil(fmt.Sprintf("bool %s;", e.HasSetFlagName()))
	}
	g.out.blank()
	for _, f := range sc.Data {
		g.out.writeil(f.Declaration() + ";")
	}
	g.out.blank()
	g.out.writeil(fmt.Sprintf("friend class %sReplay;", sc.Name))
	g.out.unindent()
	g.out.writel("};")
	g.out.blank()
}
